package handler

import (
	"context"
	"errors"

	"sih-portal/internal/domain"
	"sih-portal/internal/notify"
	"sih-portal/internal/service/auth"

	"github.com/stretchr/testify/mock"
)

type MockRegistrar struct {
	mock.Mock
}

func (m *MockRegistrar) Register(ctx context.Context, req *domain.RegistrationRequest) (*domain.RegistrationResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RegistrationResult), args.Error(1)
}

type MockTeamWorkflows struct {
	mock.Mock
}

func (m *MockTeamWorkflows) CreateTeam(ctx context.Context, req *domain.CreateTeamRequest) (*domain.Team, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Team), args.Error(1)
}

func (m *MockTeamWorkflows) JoinTeam(ctx context.Context, code string, identity *auth.Identity) (*domain.JoinTeamResult, error) {
	args := m.Called(ctx, code, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JoinTeamResult), args.Error(1)
}

type MockTeamDirectory struct {
	mock.Mock
}

func (m *MockTeamDirectory) ListOpenTeams(ctx context.Context) ([]*domain.TeamListing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.TeamListing), args.Error(1)
}

type stubPinger struct {
	err error
}

func (p stubPinger) Health(context.Context) error {
	return p.err
}

var errStoreDown = errors.New("connection refused")

// notifyOnCall adds note to the request collector when the mocked call runs
func notifyOnCall(note domain.Notification) func(mock.Arguments) {
	return func(args mock.Arguments) {
		if c, ok := notify.FromContext(args.Get(0).(context.Context)); ok {
			c.Add(note)
		}
	}
}
