package service

import (
	"context"
	"net/url"

	"sih-portal/internal/domain"
	"sih-portal/internal/metrics"
	"sih-portal/internal/notify"
	"sih-portal/internal/repository"
	"sih-portal/pkg/logger"

	"golang.org/x/sync/errgroup"
)

const defaultDiscoveryConcurrency = 8

// DiscoveryService lists open teams with their member counts
type DiscoveryService struct {
	teams       repository.TeamRepository
	members     repository.TeamMemberRepository
	notifier    notify.Notifier
	concurrency int
	logger      *logger.Logger
}

// NewDiscoveryService creates a discovery service. concurrency bounds the
// number of member counts in flight; zero or less uses the default.
func NewDiscoveryService(repos *repository.Repositories, concurrency int, notifier notify.Notifier, log *logger.Logger) *DiscoveryService {
	if concurrency <= 0 {
		concurrency = defaultDiscoveryConcurrency
	}
	return &DiscoveryService{
		teams:       repos.Teams,
		members:     repos.Members,
		notifier:    notifier,
		concurrency: concurrency,
		logger:      log.Named("discovery"),
	}
}

// ListOpenTeams returns open teams newest first, each with its member count.
// A count that fails is reported as 0 and does not abort the listing.
func (s *DiscoveryService) ListOpenTeams(ctx context.Context) ([]*domain.TeamListing, error) {
	teams, err := s.teams.ListOpen(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list open teams")
		return nil, reject(ctx, s.notifier, metrics.WorkflowDiscovery, ErrLoadTeamsFailed, err)
	}

	listings := make([]*domain.TeamListing, len(teams))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, team := range teams {
		listings[i] = &domain.TeamListing{
			ID:         team.ID,
			TeamName:   team.TeamName,
			TeamCode:   team.TeamCode,
			LeaderName: team.LeaderName,
			CreatedAt:  team.CreatedAt,
			JoinURL:    JoinURL(team.TeamCode),
		}

		listing := listings[i]
		teamID := team.ID
		g.Go(func() error {
			count, err := s.members.CountByTeam(ctx, teamID)
			if err != nil {
				metrics.RecordCountFailure()
				s.logger.WithError(err).WithField("team_id", teamID).Warn("Member count failed, reporting 0")
				return nil
			}
			listing.MemberCount = count
			return nil
		})
	}
	_ = g.Wait()

	metrics.RecordWorkflow(metrics.WorkflowDiscovery, metrics.OutcomeSuccess)
	return listings, nil
}

// JoinURL is the join view pre-filled with code
func JoinURL(code string) string {
	return "/join-team?code=" + url.QueryEscape(code)
}
