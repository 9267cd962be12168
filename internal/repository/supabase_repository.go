package repository

import (
	"context"
	"errors"
	"fmt"

	"sih-portal/internal/domain"
	"sih-portal/pkg/supabase"
)

const (
	tableRegistrations = "registrations"
	tableTeams         = "teams"
	tableTeamMembers   = "team_members"

	rpcGenerateTeamCode = "generate_team_code"
)

// SupabaseStore implements every repository port over PostgREST
type SupabaseStore struct {
	client *supabase.Client
}

// NewSupabaseStore creates a store backed by a Supabase project
func NewSupabaseStore(client *supabase.Client) *SupabaseStore {
	return &SupabaseStore{client: client}
}

// Repositories exposes the store through the port interfaces
func (s *SupabaseStore) Repositories() *Repositories {
	return &Repositories{
		Registrations: &supabaseRegistrations{s.client},
		Teams:         &supabaseTeams{s.client},
		Members:       &supabaseMembers{s.client},
		Codes:         s,
		Store:         s,
	}
}

// GenerateTeamCode calls the generate_team_code procedure
func (s *SupabaseStore) GenerateTeamCode(ctx context.Context) (string, error) {
	var code string
	if err := s.client.RPC(ctx, rpcGenerateTeamCode, nil, &code); err != nil {
		return "", fmt.Errorf("failed to generate team code: %w", mapSupabaseError(err))
	}
	if code == "" {
		return "", errors.New("failed to generate team code: empty result")
	}
	return code, nil
}

// Health pings the REST endpoint
func (s *SupabaseStore) Health(ctx context.Context) error {
	return s.client.Health(ctx)
}

type supabaseRegistrations struct {
	client *supabase.Client
}

func (r *supabaseRegistrations) Create(ctx context.Context, reg *domain.Registration) error {
	row := map[string]interface{}{
		"email":         reg.Email,
		"full_name":     reg.FullName,
		"gender":        reg.Gender,
		"phone_number":  reg.PhoneNumber,
		"department":    reg.Department,
		"batch":         reg.Batch,
		"year_of_study": reg.YearOfStudy,
	}

	var stored []domain.Registration
	if err := r.client.Insert(ctx, tableRegistrations, []interface{}{row}, &stored); err != nil {
		return fmt.Errorf("failed to create registration: %w", mapSupabaseError(err))
	}
	if len(stored) > 0 {
		reg.ID = stored[0].ID
		reg.CreatedAt = stored[0].CreatedAt
	}
	return nil
}

func (r *supabaseRegistrations) GetLatest(ctx context.Context) (*domain.Registration, error) {
	var rows []domain.Registration
	q := supabase.NewQuery().Select("*").Order("created_at", false).Limit(1)
	if err := r.client.Select(ctx, tableRegistrations, q, &rows); err != nil {
		return nil, fmt.Errorf("failed to get latest registration: %w", mapSupabaseError(err))
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

func (r *supabaseRegistrations) GetByEmail(ctx context.Context, email string) (*domain.Registration, error) {
	var reg domain.Registration
	q := supabase.NewQuery().Select("*").Eq("email", email)
	if err := r.client.SelectSingle(ctx, tableRegistrations, q, &reg); err != nil {
		return nil, fmt.Errorf("failed to get registration by email: %w", mapSupabaseError(err))
	}
	return &reg, nil
}

type supabaseTeams struct {
	client *supabase.Client
}

func (r *supabaseTeams) Create(ctx context.Context, team *domain.Team) error {
	row := map[string]interface{}{
		"team_code":    team.TeamCode,
		"team_name":    team.TeamName,
		"leader_email": team.LeaderEmail,
		"leader_name":  team.LeaderName,
		"status":       team.Status,
	}

	var stored []domain.Team
	if err := r.client.Insert(ctx, tableTeams, []interface{}{row}, &stored); err != nil {
		return fmt.Errorf("failed to create team: %w", mapSupabaseError(err))
	}
	if len(stored) == 0 {
		return errors.New("failed to create team: no row returned")
	}
	team.ID = stored[0].ID
	team.CreatedAt = stored[0].CreatedAt
	return nil
}

func (r *supabaseTeams) GetByCode(ctx context.Context, code string) (*domain.Team, error) {
	var team domain.Team
	q := supabase.NewQuery().Select("*").Eq("team_code", code)
	if err := r.client.SelectSingle(ctx, tableTeams, q, &team); err != nil {
		return nil, fmt.Errorf("failed to get team by code: %w", mapSupabaseError(err))
	}
	return &team, nil
}

func (r *supabaseTeams) ListOpen(ctx context.Context) ([]*domain.Team, error) {
	var rows []*domain.Team
	q := supabase.NewQuery().
		Select("id,team_name,team_code,leader_name,leader_email,status,created_at").
		Eq("status", string(domain.TeamStatusOpen)).
		Order("created_at", false)
	if err := r.client.Select(ctx, tableTeams, q, &rows); err != nil {
		return nil, fmt.Errorf("failed to list open teams: %w", mapSupabaseError(err))
	}
	return rows, nil
}

type supabaseMembers struct {
	client *supabase.Client
}

func (r *supabaseMembers) Create(ctx context.Context, member *domain.TeamMember) error {
	row := map[string]interface{}{
		"team_id":      member.TeamID,
		"member_email": member.MemberEmail,
		"member_name":  member.MemberName,
		"is_leader":    member.IsLeader,
	}

	var stored []domain.TeamMember
	if err := r.client.Insert(ctx, tableTeamMembers, []interface{}{row}, &stored); err != nil {
		return fmt.Errorf("failed to create team member: %w", mapSupabaseError(err))
	}
	if len(stored) > 0 {
		member.ID = stored[0].ID
		member.CreatedAt = stored[0].CreatedAt
	}
	return nil
}

func (r *supabaseMembers) Exists(ctx context.Context, teamID, email string) (bool, error) {
	var rows []struct {
		ID string `json:"id"`
	}
	q := supabase.NewQuery().Select("id").Eq("team_id", teamID).Eq("member_email", email).Limit(1)
	if err := r.client.Select(ctx, tableTeamMembers, q, &rows); err != nil {
		return false, fmt.Errorf("failed to check team membership: %w", mapSupabaseError(err))
	}
	return len(rows) > 0, nil
}

func (r *supabaseMembers) CountByTeam(ctx context.Context, teamID string) (int, error) {
	n, err := r.client.Count(ctx, tableTeamMembers, supabase.NewQuery().Eq("team_id", teamID))
	if err != nil {
		return 0, fmt.Errorf("failed to count team members: %w", mapSupabaseError(err))
	}
	return n, nil
}

// mapSupabaseError converts PostgREST failures into repository errors
func mapSupabaseError(err error) error {
	if errors.Is(err, supabase.ErrNoRows) {
		return ErrNotFound
	}
	var apiErr *supabase.APIError
	if errors.As(err, &apiErr) && apiErr.IsUniqueViolation() {
		return &UniqueViolationError{Constraint: apiErr.Constraint(), Err: err}
	}
	return err
}
