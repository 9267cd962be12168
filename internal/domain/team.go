package domain

import "time"

// TeamStatus is whether a team still accepts members
type TeamStatus string

const (
	TeamStatusOpen   TeamStatus = "open"
	TeamStatusClosed TeamStatus = "closed"
)

// Team is a hackathon team located by its code
type Team struct {
	ID          string     `json:"id,omitempty"`
	TeamCode    string     `json:"team_code"`
	TeamName    string     `json:"team_name"`
	LeaderEmail string     `json:"leader_email"`
	LeaderName  string     `json:"leader_name"`
	Status      TeamStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at,omitempty"`
}

// IsOpen reports whether the team accepts new members
func (t *Team) IsOpen() bool {
	return t.Status == TeamStatusOpen
}

// TeamMember links a participant email to a team
type TeamMember struct {
	ID          string    `json:"id,omitempty"`
	TeamID      string    `json:"team_id"`
	MemberEmail string    `json:"member_email"`
	MemberName  string    `json:"member_name"`
	IsLeader    bool      `json:"is_leader"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// CreateTeamRequest is the create-team form
type CreateTeamRequest struct {
	TeamName    string `json:"team_name"`
	LeaderName  string `json:"leader_name"`
	LeaderEmail string `json:"leader_email"`
}

// JoinTeamRequest is the join-team form
type JoinTeamRequest struct {
	TeamCode string `json:"team_code"`
}

// JoinTeamResult describes a successful join
type JoinTeamResult struct {
	Team   *Team       `json:"team"`
	Member *TeamMember `json:"member"`
}

// TeamListing is one row of the open-team directory
type TeamListing struct {
	ID          string    `json:"id"`
	TeamName    string    `json:"team_name"`
	TeamCode    string    `json:"team_code"`
	LeaderName  string    `json:"leader_name"`
	CreatedAt   time.Time `json:"created_at"`
	MemberCount int       `json:"member_count"`
	JoinURL     string    `json:"join_url"`
}
