package repository

import (
	"context"
	"errors"
	"fmt"

	"sih-portal/internal/domain"
	"sih-portal/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// PostgresStore implements every repository port directly over pgx
type PostgresStore struct {
	db *database.PostgresDB
}

// NewPostgresStore creates a store backed by a Postgres pool
func NewPostgresStore(db *database.PostgresDB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Repositories exposes the store through the port interfaces
func (s *PostgresStore) Repositories() *Repositories {
	return &Repositories{
		Registrations: &pgRegistrations{s.db},
		Teams:         &pgTeams{s.db},
		Members:       &pgMembers{s.db},
		Codes:         s,
		Store:         s.db,
	}
}

// GenerateTeamCode calls the generate_team_code() function
func (s *PostgresStore) GenerateTeamCode(ctx context.Context) (string, error) {
	var code string
	if err := s.db.Pool.QueryRow(ctx, `SELECT generate_team_code()`).Scan(&code); err != nil {
		return "", fmt.Errorf("failed to generate team code: %w", mapPgError(err))
	}
	return code, nil
}

type pgRegistrations struct {
	db *database.PostgresDB
}

const registrationColumns = `id, email, full_name, gender, phone_number, department, batch, year_of_study, created_at`

func (r *pgRegistrations) Create(ctx context.Context, reg *domain.Registration) error {
	query := `
		INSERT INTO registrations (email, full_name, gender, phone_number, department, batch, year_of_study)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		reg.Email,
		reg.FullName,
		reg.Gender,
		reg.PhoneNumber,
		reg.Department,
		reg.Batch,
		reg.YearOfStudy,
	).Scan(&reg.ID, &reg.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create registration: %w", mapPgError(err))
	}
	return nil
}

func (r *pgRegistrations) GetLatest(ctx context.Context) (*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations ORDER BY created_at DESC LIMIT 1`

	reg, err := scanRegistration(r.db.Pool.QueryRow(ctx, query))
	if err != nil {
		return nil, fmt.Errorf("failed to get latest registration: %w", mapPgError(err))
	}
	return reg, nil
}

func (r *pgRegistrations) GetByEmail(ctx context.Context, email string) (*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE email = $1`

	reg, err := scanRegistration(r.db.Pool.QueryRow(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("failed to get registration by email: %w", mapPgError(err))
	}
	return reg, nil
}

func scanRegistration(row pgx.Row) (*domain.Registration, error) {
	var reg domain.Registration
	err := row.Scan(
		&reg.ID,
		&reg.Email,
		&reg.FullName,
		&reg.Gender,
		&reg.PhoneNumber,
		&reg.Department,
		&reg.Batch,
		&reg.YearOfStudy,
		&reg.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

type pgTeams struct {
	db *database.PostgresDB
}

const teamColumns = `id, team_code, team_name, leader_email, leader_name, status, created_at`

func (r *pgTeams) Create(ctx context.Context, team *domain.Team) error {
	query := `
		INSERT INTO teams (team_code, team_name, leader_email, leader_name, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		team.TeamCode,
		team.TeamName,
		team.LeaderEmail,
		team.LeaderName,
		team.Status,
	).Scan(&team.ID, &team.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create team: %w", mapPgError(err))
	}
	return nil
}

func (r *pgTeams) GetByCode(ctx context.Context, code string) (*domain.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE team_code = $1`

	team, err := scanTeam(r.db.Pool.QueryRow(ctx, query, code))
	if err != nil {
		return nil, fmt.Errorf("failed to get team by code: %w", mapPgError(err))
	}
	return team, nil
}

func (r *pgTeams) ListOpen(ctx context.Context) ([]*domain.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE status = $1 ORDER BY created_at DESC`

	rows, err := r.db.Pool.Query(ctx, query, domain.TeamStatusOpen)
	if err != nil {
		return nil, fmt.Errorf("failed to list open teams: %w", err)
	}
	defer rows.Close()

	var teams []*domain.Team
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, team)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate teams: %w", err)
	}

	return teams, nil
}

func scanTeam(row pgx.Row) (*domain.Team, error) {
	var team domain.Team
	err := row.Scan(
		&team.ID,
		&team.TeamCode,
		&team.TeamName,
		&team.LeaderEmail,
		&team.LeaderName,
		&team.Status,
		&team.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &team, nil
}

type pgMembers struct {
	db *database.PostgresDB
}

func (r *pgMembers) Create(ctx context.Context, member *domain.TeamMember) error {
	query := `
		INSERT INTO team_members (team_id, member_email, member_name, is_leader)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		member.TeamID,
		member.MemberEmail,
		member.MemberName,
		member.IsLeader,
	).Scan(&member.ID, &member.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create team member: %w", mapPgError(err))
	}
	return nil
}

func (r *pgMembers) Exists(ctx context.Context, teamID, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM team_members WHERE team_id = $1 AND member_email = $2)`

	var exists bool
	if err := r.db.Pool.QueryRow(ctx, query, teamID, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check team membership: %w", err)
	}
	return exists, nil
}

func (r *pgMembers) CountByTeam(ctx context.Context, teamID string) (int, error) {
	query := `SELECT COUNT(*) FROM team_members WHERE team_id = $1`

	var count int
	if err := r.db.Pool.QueryRow(ctx, query, teamID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count team members: %w", err)
	}
	return count, nil
}

// mapPgError converts pgx failures into repository errors
func mapPgError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return &UniqueViolationError{Constraint: pgErr.ConstraintName, Err: err}
	}
	return err
}
