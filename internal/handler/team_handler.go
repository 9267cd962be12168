package handler

import (
	"context"
	"net/http"

	"sih-portal/internal/domain"
	"sih-portal/internal/service/auth"
	"sih-portal/pkg/logger"
)

const (
	teamFormationPath = "/team-formation"
	createTeamPath    = "/create-team"
)

// TeamWorkflows creates and joins teams
type TeamWorkflows interface {
	CreateTeam(ctx context.Context, req *domain.CreateTeamRequest) (*domain.Team, error)
	JoinTeam(ctx context.Context, code string, identity *auth.Identity) (*domain.JoinTeamResult, error)
}

// TeamDirectory lists teams that accept members
type TeamDirectory interface {
	ListOpenTeams(ctx context.Context) ([]*domain.TeamListing, error)
}

// TeamHandler handles team HTTP requests
type TeamHandler struct {
	teams     TeamWorkflows
	directory TeamDirectory
	logger    *logger.Logger
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(teams TeamWorkflows, directory TeamDirectory, log *logger.Logger) *TeamHandler {
	return &TeamHandler{
		teams:     teams,
		directory: directory,
		logger:    log.Named("team"),
	}
}

// CreateTeamResponse is the data of a create-team response
type CreateTeamResponse struct {
	Team *domain.Team              `json:"team,omitempty"`
	Next string                    `json:"next,omitempty"`
	Form *domain.CreateTeamRequest `json:"form,omitempty"`
}

// JoinTeamResponse is the data of a join-team response
type JoinTeamResponse struct {
	Team   *domain.Team            `json:"team,omitempty"`
	Member *domain.TeamMember      `json:"member,omitempty"`
	Next   string                  `json:"next,omitempty"`
	Form   *domain.JoinTeamRequest `json:"form,omitempty"`
}

// OpenTeamsResponse is the data of the open-team directory
type OpenTeamsResponse struct {
	Teams     []*domain.TeamListing `json:"teams"`
	Empty     bool                  `json:"empty"`
	CreateURL string                `json:"create_url"`
}

// CreateTeam handles POST /api/v1/teams
func (h *TeamHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateTeamRequest
	if err := readJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, invalidRequest(err), nil)
		return
	}

	team, err := h.teams.CreateTeam(r.Context(), &req)
	if err != nil {
		respondError(w, r, h.logger, err, CreateTeamResponse{Form: &req})
		return
	}

	respondSuccess(w, r, http.StatusCreated, CreateTeamResponse{
		Team: team,
		Next: teamFormationPath,
	})
}

// JoinTeam handles POST /api/v1/teams/join
func (h *TeamHandler) JoinTeam(w http.ResponseWriter, r *http.Request) {
	var req domain.JoinTeamRequest
	if err := readJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, invalidRequest(err), nil)
		return
	}

	identity, _ := auth.IdentityFromContext(r.Context())

	result, err := h.teams.JoinTeam(r.Context(), req.TeamCode, identity)
	if err != nil {
		respondError(w, r, h.logger, err, JoinTeamResponse{Form: &req})
		return
	}

	respondSuccess(w, r, http.StatusOK, JoinTeamResponse{
		Team:   result.Team,
		Member: result.Member,
		Next:   teamFormationPath,
	})
}

// OpenTeams handles GET /api/v1/teams/open
func (h *TeamHandler) OpenTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.directory.ListOpenTeams(r.Context())
	if err != nil {
		respondError(w, r, h.logger, err, nil)
		return
	}

	if teams == nil {
		teams = []*domain.TeamListing{}
	}

	respondSuccess(w, r, http.StatusOK, OpenTeamsResponse{
		Teams:     teams,
		Empty:     len(teams) == 0,
		CreateURL: createTeamPath,
	})
}
