package repository

import (
	"context"
	"errors"
	"fmt"

	"sih-portal/internal/domain"
)

// ErrNotFound is returned when a lookup matched no rows
var ErrNotFound = errors.New("record not found")

// UniqueViolationError reports that a write hit a unique constraint
type UniqueViolationError struct {
	Constraint string
	Err        error
}

func (e *UniqueViolationError) Error() string {
	if e.Constraint == "" {
		return fmt.Sprintf("unique constraint violated: %v", e.Err)
	}
	return fmt.Sprintf("unique constraint %q violated: %v", e.Constraint, e.Err)
}

func (e *UniqueViolationError) Unwrap() error {
	return e.Err
}

// IsUniqueViolation reports whether err is a unique violation and returns the constraint name
func IsUniqueViolation(err error) (string, bool) {
	var uv *UniqueViolationError
	if errors.As(err, &uv) {
		return uv.Constraint, true
	}
	return "", false
}

// Constraint names created by cmd/migrate
const (
	ConstraintRegistrationEmail = "registrations_email_key"
	ConstraintTeamCode          = "teams_team_code_key"
	ConstraintTeamMember        = "team_members_team_id_member_email_key"
)

// RegistrationRepository defines the interface for registration data operations
type RegistrationRepository interface {
	// Create inserts a registration and fills in the stored id and created_at
	Create(ctx context.Context, reg *domain.Registration) error

	// GetLatest returns the most recently created registration
	GetLatest(ctx context.Context) (*domain.Registration, error)

	// GetByEmail returns the registration with exactly this email
	GetByEmail(ctx context.Context, email string) (*domain.Registration, error)
}

// TeamRepository defines the interface for team data operations
type TeamRepository interface {
	// Create inserts a team and fills in the stored id and created_at
	Create(ctx context.Context, team *domain.Team) error

	// GetByCode returns the single team with this code
	GetByCode(ctx context.Context, code string) (*domain.Team, error)

	// ListOpen returns open teams, newest first
	ListOpen(ctx context.Context) ([]*domain.Team, error)
}

// TeamMemberRepository defines the interface for team membership operations
type TeamMemberRepository interface {
	// Create inserts a membership row
	Create(ctx context.Context, member *domain.TeamMember) error

	// Exists reports whether a membership row for (teamID, email) exists
	Exists(ctx context.Context, teamID, email string) (bool, error)

	// CountByTeam returns the number of membership rows for teamID
	CountByTeam(ctx context.Context, teamID string) (int, error)
}

// CodeGenerator produces candidate team codes
type CodeGenerator interface {
	GenerateTeamCode(ctx context.Context) (string, error)
}

// Pinger checks that the store is reachable
type Pinger interface {
	Health(ctx context.Context) error
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Registrations RegistrationRepository
	Teams         TeamRepository
	Members       TeamMemberRepository
	Codes         CodeGenerator
	Store         Pinger
}
