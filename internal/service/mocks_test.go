package service

import (
	"context"
	"sync"

	"sih-portal/internal/domain"
	"sih-portal/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockRegistrationRepository struct {
	mock.Mock
}

func (m *MockRegistrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	args := m.Called(ctx, reg)
	return args.Error(0)
}

func (m *MockRegistrationRepository) GetLatest(ctx context.Context) (*domain.Registration, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Registration), args.Error(1)
}

func (m *MockRegistrationRepository) GetByEmail(ctx context.Context, email string) (*domain.Registration, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Registration), args.Error(1)
}

type MockTeamRepository struct {
	mock.Mock
}

func (m *MockTeamRepository) Create(ctx context.Context, team *domain.Team) error {
	args := m.Called(ctx, team)
	return args.Error(0)
}

func (m *MockTeamRepository) GetByCode(ctx context.Context, code string) (*domain.Team, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Team), args.Error(1)
}

func (m *MockTeamRepository) ListOpen(ctx context.Context) ([]*domain.Team, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Team), args.Error(1)
}

type MockTeamMemberRepository struct {
	mock.Mock
}

func (m *MockTeamMemberRepository) Create(ctx context.Context, member *domain.TeamMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockTeamMemberRepository) Exists(ctx context.Context, teamID, email string) (bool, error) {
	args := m.Called(ctx, teamID, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockTeamMemberRepository) CountByTeam(ctx context.Context, teamID string) (int, error) {
	args := m.Called(ctx, teamID)
	return args.Int(0), args.Error(1)
}

type MockCodeGenerator struct {
	mock.Mock
}

func (m *MockCodeGenerator) GenerateTeamCode(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type testRepos struct {
	registrations *MockRegistrationRepository
	teams         *MockTeamRepository
	members       *MockTeamMemberRepository
	codes         *MockCodeGenerator
}

func newTestRepos() *testRepos {
	return &testRepos{
		registrations: &MockRegistrationRepository{},
		teams:         &MockTeamRepository{},
		members:       &MockTeamMemberRepository{},
		codes:         &MockCodeGenerator{},
	}
}

func (r *testRepos) repositories() *repository.Repositories {
	return &repository.Repositories{
		Registrations: r.registrations,
		Teams:         r.teams,
		Members:       r.members,
		Codes:         r.codes,
	}
}

// recordingNotifier keeps every notification for assertions
type recordingNotifier struct {
	mu    sync.Mutex
	notes []domain.Notification
}

func (n *recordingNotifier) Notify(_ context.Context, note domain.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, note)
}

func (n *recordingNotifier) last() domain.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.notes) == 0 {
		return domain.Notification{}
	}
	return n.notes[len(n.notes)-1]
}

// denyGuard simulates another request holding the guard
type denyGuard struct{}

func (denyGuard) AcquireJoin(context.Context, string, string) (ReleaseFunc, bool) {
	return func() {}, false
}

func (denyGuard) AcquireCreate(context.Context, string) (ReleaseFunc, bool) {
	return func() {}, false
}
