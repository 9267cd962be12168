package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"sih-portal/internal/domain"
	"sih-portal/internal/service/auth"
	apperrors "sih-portal/pkg/errors"
	"sih-portal/pkg/logger"
	"sih-portal/pkg/utils"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Views rendered by PageHandler
const (
	viewLanding       = "landing"
	viewRegister      = "register"
	viewTeamFormation = "team_formation"
	viewCreateTeam    = "create_team"
	viewJoinTeam      = "join_team"
	viewFindTeams     = "find_teams"
	viewNotFound      = "not_found"
)

var views = []string{
	viewLanding,
	viewRegister,
	viewTeamFormation,
	viewCreateTeam,
	viewJoinTeam,
	viewFindTeams,
	viewNotFound,
}

type processStep struct {
	Title       string
	Description string
}

var processSteps = []processStep{
	{Title: "Individual Registration", Description: "(closes on 15 Sept)"},
	{Title: "Form a Team of 6 members", Description: "(atleast 1 female team member) - Use Team Discovery form registration to find teammates"},
	{Title: "Select Problem Statement", Description: "Choose a problem statement from SIH"},
	{Title: "Kickoff & Mentorship", Description: "Meet your team & assigned mentor"},
	{Title: "Idea Development", Description: "Guided sessions + mentor support"},
	{Title: "Final Pitching (Ideathon)", Description: "Pitch your solution & get shortlisted for next level of SIH"},
}

type selectOption struct {
	Value    string
	Label    string
	Selected bool
}

type pageData struct {
	Title         string
	Notifications []domain.Notification
	Steps         []processStep

	Registration *domain.RegistrationRequest
	Genders      []selectOption
	Departments  []selectOption
	Batches      []selectOption
	Years        []selectOption

	CreateTeam *domain.CreateTeamRequest
	TeamCode   string
	CodeLength int
	Teams      []*domain.TeamListing
}

// PageHandler serves the navigable views of the portal
type PageHandler struct {
	templates map[string]*template.Template
	registrar Registrar
	teams     TeamWorkflows
	directory TeamDirectory
	cookie    CookieSettings
	logger    *logger.Logger
}

// NewPageHandler parses the embedded views and creates a page handler
func NewPageHandler(registrar Registrar, teams TeamWorkflows, directory TeamDirectory, cookie CookieSettings, log *logger.Logger) (*PageHandler, error) {
	templates := make(map[string]*template.Template, len(views))
	for _, name := range views {
		tmpl, err := template.ParseFS(templatesFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse view %s: %w", name, err)
		}
		templates[name] = tmpl
	}

	return &PageHandler{
		templates: templates,
		registrar: registrar,
		teams:     teams,
		directory: directory,
		cookie:    cookie,
		logger:    log.Named("pages"),
	}, nil
}

// Landing handles GET /
func (h *PageHandler) Landing(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, viewLanding, &pageData{
		Title: "Smart India Hackathon 2025",
		Steps: processSteps,
	})
}

// RegisterForm handles GET /register
func (h *PageHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, viewRegister, registerData(&domain.RegistrationRequest{}))
}

// RegisterSubmit handles POST /register. The form is cleared on success
// and kept populated on failure.
func (h *PageHandler) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		h.render(w, r, http.StatusBadRequest, viewRegister, registerData(&domain.RegistrationRequest{}))
		return
	}

	req := &domain.RegistrationRequest{
		Email:       r.PostFormValue("email"),
		FullName:    r.PostFormValue("full_name"),
		Gender:      r.PostFormValue("gender"),
		PhoneNumber: r.PostFormValue("phone_number"),
		Department:  r.PostFormValue("department"),
		Batch:       r.PostFormValue("batch"),
		YearOfStudy: r.PostFormValue("year_of_study"),
	}

	result, err := h.registrar.Register(r.Context(), req)
	if err != nil {
		h.render(w, r, statusOf(err), viewRegister, registerData(req))
		return
	}

	setSessionCookie(w, h.cookie, result.SessionToken)
	h.render(w, r, http.StatusOK, viewRegister, registerData(&domain.RegistrationRequest{}))
}

// TeamFormation handles GET /team-formation
func (h *PageHandler) TeamFormation(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, viewTeamFormation, &pageData{Title: "Team Formation"})
}

// CreateTeamForm handles GET /create-team
func (h *PageHandler) CreateTeamForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, viewCreateTeam, &pageData{
		Title:      "Create Team",
		CreateTeam: &domain.CreateTeamRequest{},
	})
}

// CreateTeamSubmit handles POST /create-team and shows the team formation
// hub once the team exists.
func (h *PageHandler) CreateTeamSubmit(w http.ResponseWriter, r *http.Request) {
	req := &domain.CreateTeamRequest{}
	if err := parseForm(w, r); err == nil {
		req.TeamName = r.PostFormValue("team_name")
		req.LeaderName = r.PostFormValue("leader_name")
		req.LeaderEmail = r.PostFormValue("leader_email")
	}

	if _, err := h.teams.CreateTeam(r.Context(), req); err != nil {
		h.render(w, r, statusOf(err), viewCreateTeam, &pageData{
			Title:      "Create Team",
			CreateTeam: req,
		})
		return
	}

	h.render(w, r, http.StatusOK, viewTeamFormation, &pageData{Title: "Team Formation"})
}

// JoinTeamForm handles GET /join-team, pre-filling ?code=
func (h *PageHandler) JoinTeamForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, viewJoinTeam, &pageData{
		Title:      "Join Team",
		TeamCode:   utils.NormalizeTeamCode(r.URL.Query().Get("code")),
		CodeLength: utils.TeamCodeLength,
	})
}

// JoinTeamSubmit handles POST /join-team
func (h *PageHandler) JoinTeamSubmit(w http.ResponseWriter, r *http.Request) {
	var code string
	if err := parseForm(w, r); err == nil {
		code = r.PostFormValue("team_code")
	}

	identity, _ := auth.IdentityFromContext(r.Context())

	if _, err := h.teams.JoinTeam(r.Context(), code, identity); err != nil {
		h.render(w, r, statusOf(err), viewJoinTeam, &pageData{
			Title:      "Join Team",
			TeamCode:   code,
			CodeLength: utils.TeamCodeLength,
		})
		return
	}

	h.render(w, r, http.StatusOK, viewTeamFormation, &pageData{Title: "Team Formation"})
}

// FindTeams handles GET /find-teams
func (h *PageHandler) FindTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.directory.ListOpenTeams(r.Context())
	if err != nil {
		h.render(w, r, statusOf(err), viewFindTeams, &pageData{Title: "Available Teams"})
		return
	}

	h.render(w, r, http.StatusOK, viewFindTeams, &pageData{
		Title: "Available Teams",
		Teams: teams,
	})
}

// NotFound renders the not-found view for any unknown path
func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.logger.WithField("path", r.URL.Path).Debug("Unknown route requested")
	h.render(w, r, http.StatusNotFound, viewNotFound, &pageData{Title: "Page Not Found"})
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, status int, view string, data *pageData) {
	data.Notifications = collected(r)

	var buf bytes.Buffer
	if err := h.templates[view].ExecuteTemplate(&buf, "layout", data); err != nil {
		h.logger.WithError(err).WithField("view", view).Error("Failed to render view")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return r.ParseForm()
}

func statusOf(err error) int {
	return apperrors.As(err).StatusCode
}

func registerData(req *domain.RegistrationRequest) *pageData {
	genders := make([]string, len(domain.Genders))
	for i, g := range domain.Genders {
		genders[i] = string(g)
	}

	return &pageData{
		Title:        "Register",
		Registration: req,
		Genders:      options(genders, req.Gender, capitalize),
		Departments:  options(domain.Departments, req.Department, nil),
		Batches:      options(domain.Batches, req.Batch, nil),
		Years:        options(domain.YearsOfStudy, req.YearOfStudy, nil),
	}
}

func options(values []string, selected string, label func(string) string) []selectOption {
	out := make([]selectOption, len(values))
	for i, v := range values {
		l := v
		if label != nil {
			l = label(v)
		}
		out[i] = selectOption{Value: v, Label: l, Selected: v == selected}
	}
	return out
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
