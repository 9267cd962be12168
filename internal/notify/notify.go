package notify

import (
	"context"
	"net/http"
	"sync"

	"sih-portal/internal/domain"
	"sih-portal/pkg/logger"
)

// Notifier delivers user-facing notifications produced by a workflow
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification)
}

// Success builds a default-variant notification
func Success(title, description string) domain.Notification {
	return domain.Notification{Title: title, Description: description, Variant: domain.VariantDefault}
}

// Failure builds a destructive-variant notification
func Failure(title, description string) domain.Notification {
	return domain.Notification{Title: title, Description: description, Variant: domain.VariantDestructive}
}

// Collector accumulates the notifications raised while serving one request
type Collector struct {
	mu    sync.Mutex
	items []domain.Notification
}

// Add appends a notification
func (c *Collector) Add(n domain.Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, n)
}

// Items returns a copy of the collected notifications, never nil
func (c *Collector) Items() []domain.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Notification, len(c.items))
	copy(out, c.items)
	return out
}

type collectorKey struct{}

// WithCollector returns a context carrying c
func WithCollector(ctx context.Context, c *Collector) context.Context {
	return context.WithValue(ctx, collectorKey{}, c)
}

// FromContext returns the request's collector, if any
func FromContext(ctx context.Context) (*Collector, bool) {
	c, ok := ctx.Value(collectorKey{}).(*Collector)
	return c, ok
}

// Middleware attaches a fresh Collector to every request
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithCollector(r.Context(), &Collector{})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestNotifier logs every notification and adds it to the request's collector
type RequestNotifier struct {
	logger *logger.Logger
}

// NewRequestNotifier creates the default Notifier
func NewRequestNotifier(log *logger.Logger) *RequestNotifier {
	return &RequestNotifier{logger: log.Named("notify")}
}

// Notify implements Notifier
func (n *RequestNotifier) Notify(ctx context.Context, note domain.Notification) {
	n.logger.WithFields(map[string]interface{}{
		"title":   note.Title,
		"variant": note.Variant,
	}).Debug("Notification raised")

	if c, ok := FromContext(ctx); ok {
		c.Add(note)
	}
}
