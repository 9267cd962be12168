package utils

import "strings"

// TeamCodeLength is the length of codes produced by generate_team_code()
const TeamCodeLength = 6

// NormalizeTeamCode trims surrounding whitespace and uppercases a code typed by a user
func NormalizeTeamCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
