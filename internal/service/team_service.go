package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sih-portal/internal/domain"
	"sih-portal/internal/metrics"
	"sih-portal/internal/notify"
	"sih-portal/internal/repository"
	"sih-portal/internal/service/auth"
	"sih-portal/pkg/logger"
	"sih-portal/pkg/utils"
)

const maxCodeAttempts = 3

// TeamService creates teams and adds participants to them
type TeamService struct {
	teams         repository.TeamRepository
	members       repository.TeamMemberRepository
	registrations repository.RegistrationRepository
	codes         repository.CodeGenerator
	guard         MembershipGuard
	notifier      notify.Notifier
	logger        *logger.Logger
}

// NewTeamService creates a team service. A nil guard means NoopGuard.
func NewTeamService(repos *repository.Repositories, guard MembershipGuard, notifier notify.Notifier, log *logger.Logger) *TeamService {
	if guard == nil {
		guard = NoopGuard{}
	}
	return &TeamService{
		teams:         repos.Teams,
		members:       repos.Members,
		registrations: repos.Registrations,
		codes:         repos.Codes,
		guard:         guard,
		notifier:      notifier,
		logger:        log.Named("team"),
	}
}

// CreateTeam requests a team code, stores the team as open and adds the
// leader as its first member. The two inserts are not atomic: if the
// leader insert fails the team row stays behind without a leader.
func (s *TeamService) CreateTeam(ctx context.Context, req *domain.CreateTeamRequest) (*domain.Team, error) {
	team := &domain.Team{
		TeamName:    strings.TrimSpace(req.TeamName),
		LeaderName:  strings.TrimSpace(req.LeaderName),
		LeaderEmail: strings.TrimSpace(req.LeaderEmail),
		Status:      domain.TeamStatusOpen,
	}

	var missing []string
	if team.TeamName == "" {
		missing = append(missing, "team_name")
	}
	if team.LeaderName == "" {
		missing = append(missing, "leader_name")
	}
	if team.LeaderEmail == "" {
		missing = append(missing, "leader_email")
	}
	if len(missing) > 0 {
		return nil, reject(ctx, s.notifier, metrics.WorkflowCreateTeam,
			ErrMissingInformation.WithDetails(map[string]interface{}{"missing": missing}), nil)
	}
	if !utils.IsValidEmail(team.LeaderEmail) {
		return nil, reject(ctx, s.notifier, metrics.WorkflowCreateTeam, ErrInvalidEmail, nil)
	}

	release, ok := s.guard.AcquireCreate(ctx, team.LeaderEmail)
	if !ok {
		return nil, reject(ctx, s.notifier, metrics.WorkflowCreateTeam, ErrCreateInProgress, nil)
	}
	defer release()

	log := s.logger.WithField("leader", utils.MaskEmail(team.LeaderEmail))

	if err := s.insertWithFreshCode(ctx, team); err != nil {
		log.WithError(err).Error("Failed to create team")
		return nil, reject(ctx, s.notifier, metrics.WorkflowCreateTeam, ErrCreateTeamFailed, err)
	}

	leader := &domain.TeamMember{
		TeamID:      team.ID,
		MemberEmail: team.LeaderEmail,
		MemberName:  team.LeaderName,
		IsLeader:    true,
	}
	if err := s.members.Create(ctx, leader); err != nil {
		log.WithError(err).WithFields(map[string]interface{}{
			"team_id":   team.ID,
			"team_code": team.TeamCode,
		}).Error("Team stored without leader membership")
		return nil, reject(ctx, s.notifier, metrics.WorkflowCreateTeam, ErrCreateTeamFailed, err)
	}

	log.WithFields(map[string]interface{}{
		"team_id":   team.ID,
		"team_code": team.TeamCode,
	}).Info("Team created")

	succeed(ctx, s.notifier, metrics.WorkflowCreateTeam, "Team Created Successfully!",
		fmt.Sprintf("Your team code is: %s. Share this with your team members.", team.TeamCode))

	return team, nil
}

// insertWithFreshCode stores team under a generated code, regenerating when
// the code collides with an existing team
func (s *TeamService) insertWithFreshCode(ctx context.Context, team *domain.Team) error {
	var lastErr error
	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		code, err := s.codes.GenerateTeamCode(ctx)
		if err != nil {
			return err
		}
		team.TeamCode = code

		err = s.teams.Create(ctx, team)
		if err == nil {
			return nil
		}

		constraint, unique := repository.IsUniqueViolation(err)
		if !unique || constraint != repository.ConstraintTeamCode {
			return err
		}

		metrics.RecordTeamCodeCollision()
		s.logger.WithFields(map[string]interface{}{
			"attempt":   attempt,
			"team_code": code,
		}).Warn("Generated team code already in use, regenerating")
		lastErr = err
	}
	return fmt.Errorf("no unused team code after %d attempts: %w", maxCodeAttempts, lastErr)
}

// JoinTeam adds the acting participant to the open team with code.
// identity may be nil, in which case the most recent registration is used.
func (s *TeamService) JoinTeam(ctx context.Context, code string, identity *auth.Identity) (*domain.JoinTeamResult, error) {
	code = utils.NormalizeTeamCode(code)
	if code == "" {
		return nil, reject(ctx, s.notifier, metrics.WorkflowJoinTeam,
			ErrMissingInformation.WithDetails(map[string]interface{}{"missing": []string{"team_code"}}), nil)
	}

	log := s.logger.WithField("team_code", code)

	team, err := s.teams.GetByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.WithError(err).Warn("Team lookup failed")
		}
		return nil, reject(ctx, s.notifier, metrics.WorkflowJoinTeam, ErrTeamNotFound, err)
	}
	if !team.IsOpen() {
		return nil, reject(ctx, s.notifier, metrics.WorkflowJoinTeam, ErrTeamNotAvailable, nil)
	}

	participant, err := s.resolveParticipant(ctx, identity)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, reject(ctx, s.notifier, metrics.WorkflowJoinTeam, ErrRegistrationNotFound, err)
		}
		log.WithError(err).Error("Failed to resolve participant")
		return nil, reject(ctx, s.notifier, metrics.WorkflowJoinTeam, ErrJoinTeamFailed, err)
	}

	log = log.WithFields(map[string]interface{}{
		"team_id": team.ID,
		"member":  utils.MaskEmail(participant.Email),
	})

	release, ok := s.guard.AcquireJoin(ctx, team.ID, participant.Email)
	if !ok {
		log.Info("Concurrent join in progress")
		return nil, reject(ctx, s.notifier, metrics.WorkflowJoinTeam, ErrAlreadyMember, nil)
	}
	defer release()

	exists, err := s.members.Exists(ctx, team.ID, participant.Email)
	if err != nil {
		log.WithError(err).Error("Failed to check membership")
		return nil, reject(ctx, s.notifier, metrics.WorkflowJoinTeam, ErrJoinTeamFailed, err)
	}
	if exists {
		return nil, reject(ctx, s.notifier, metrics.WorkflowJoinTeam, ErrAlreadyMember, nil)
	}

	member := &domain.TeamMember{
		TeamID:      team.ID,
		MemberEmail: participant.Email,
		MemberName:  participant.FullName,
		IsLeader:    false,
	}
	if err := s.members.Create(ctx, member); err != nil {
		if _, unique := repository.IsUniqueViolation(err); unique {
			return nil, reject(ctx, s.notifier, metrics.WorkflowJoinTeam, ErrAlreadyMember, err)
		}
		log.WithError(err).Error("Failed to add team member")
		return nil, reject(ctx, s.notifier, metrics.WorkflowJoinTeam, ErrJoinTeamFailed, err)
	}

	log.Info("Participant joined team")
	succeed(ctx, s.notifier, metrics.WorkflowJoinTeam, "Successfully Joined Team!",
		fmt.Sprintf(`You have joined team "%s".`, team.TeamName))

	return &domain.JoinTeamResult{Team: team, Member: member}, nil
}

// resolveParticipant prefers the session identity and falls back to the
// most recently created registration
func (s *TeamService) resolveParticipant(ctx context.Context, identity *auth.Identity) (*domain.Participant, error) {
	var (
		reg *domain.Registration
		err error
	)
	if identity != nil && identity.Email != "" {
		reg, err = s.registrations.GetByEmail(ctx, identity.Email)
	} else {
		reg, err = s.registrations.GetLatest(ctx)
	}
	if err != nil {
		return nil, err
	}
	return &domain.Participant{Email: reg.Email, FullName: reg.FullName}, nil
}
