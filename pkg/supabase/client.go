package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"sih-portal/pkg/logger"
)

// ErrNoRows is returned by SelectSingle when the filter matched nothing
var ErrNoRows = errors.New("supabase: no rows in result set")

const (
	restPath = "/rest/v1"

	// PostgREST returns this code when a singular response has 0 or >1 rows
	codeSingularMismatch = "PGRST116"
	// Postgres unique_violation
	codeUniqueViolation = "23505"

	singularAccept = "application/vnd.pgrst.object+json"
)

// Config holds the project endpoint and key
type Config struct {
	URL     string
	AnonKey string
	Timeout time.Duration
}

// Client talks to a Supabase project's PostgREST API and RPC endpoints
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient creates a new Supabase client
func NewClient(cfg Config, log *logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		apiKey:  cfg.AnonKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log,
	}
}

// Insert inserts rows into table and decodes the inserted representation into out.
// out may be nil when the caller does not need the stored rows back.
func (c *Client) Insert(ctx context.Context, table string, rows interface{}, out interface{}) error {
	body, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal insert body: %w", err)
	}

	headers := map[string]string{"Prefer": "return=minimal"}
	if out != nil {
		headers["Prefer"] = "return=representation"
	}

	resp, err := c.do(ctx, http.MethodPost, restPath+"/"+table, nil, body, headers)
	if err != nil {
		return err
	}
	return decodeInto(resp, out)
}

// Select runs a filtered select and decodes the JSON array into out
func (c *Client) Select(ctx context.Context, table string, q *Query, out interface{}) error {
	resp, err := c.do(ctx, http.MethodGet, restPath+"/"+table, q, nil, nil)
	if err != nil {
		return err
	}
	return decodeInto(resp, out)
}

// SelectSingle runs a select that must match exactly one row. Zero rows is ErrNoRows.
func (c *Client) SelectSingle(ctx context.Context, table string, q *Query, out interface{}) error {
	resp, err := c.do(ctx, http.MethodGet, restPath+"/"+table, q, nil, map[string]string{"Accept": singularAccept})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.IsNoRows() {
			return ErrNoRows
		}
		return err
	}
	return decodeInto(resp, out)
}

// Count returns the exact number of rows matching q without transferring them
func (c *Client) Count(ctx context.Context, table string, q *Query) (int, error) {
	resp, err := c.do(ctx, http.MethodHead, restPath+"/"+table, q, nil, map[string]string{"Prefer": "count=exact"})
	if err != nil {
		return 0, err
	}
	return parseContentRangeTotal(resp.header.Get("Content-Range"))
}

// RPC invokes a Postgres function exposed by PostgREST and decodes its result into out
func (c *Client) RPC(ctx context.Context, function string, args interface{}, out interface{}) error {
	if args == nil {
		args = map[string]interface{}{}
	}
	body, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("failed to marshal rpc args: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, restPath+"/rpc/"+function, nil, body, nil)
	if err != nil {
		return err
	}
	return decodeInto(resp, out)
}

// Health checks that the REST endpoint answers with the configured key
func (c *Client) Health(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodHead, restPath+"/", nil, nil, nil)
	return err
}

type response struct {
	status int
	header http.Header
	body   []byte
}

func (c *Client) do(ctx context.Context, method, path string, q *Query, body []byte, headers map[string]string) (*response, error) {
	url := c.baseURL + path
	if q != nil {
		if encoded := q.Encode(); encoded != "" {
			url += "?" + encoded
		}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call Supabase: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	log := c.logger.WithFields(map[string]interface{}{
		"method":      method,
		"path":        path,
		"status_code": resp.StatusCode,
		"duration":    time.Since(start).String(),
	})

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := parseAPIError(resp.StatusCode, respBody)
		log.WithField("code", apiErr.Code).Debug("Supabase request failed")
		return nil, apiErr
	}

	log.Debug("Supabase request completed")
	return &response{status: resp.StatusCode, header: resp.Header, body: respBody}, nil
}

func decodeInto(resp *response, out interface{}) error {
	if out == nil || len(resp.body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return fmt.Errorf("failed to parse Supabase response: %w", err)
	}
	return nil
}

// parseContentRangeTotal reads the total from "0-24/3573" or "*/0"
func parseContentRangeTotal(header string) (int, error) {
	slash := strings.LastIndex(header, "/")
	if slash < 0 {
		return 0, fmt.Errorf("missing count in Content-Range %q", header)
	}
	total := header[slash+1:]
	if total == "*" {
		return 0, fmt.Errorf("count was not computed, Content-Range %q", header)
	}
	n, err := strconv.Atoi(total)
	if err != nil {
		return 0, fmt.Errorf("invalid count in Content-Range %q: %w", header, err)
	}
	return n, nil
}
