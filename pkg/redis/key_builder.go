package redis

import "fmt"

// KeyBuilder provides environment-aware Redis key building functionality
type KeyBuilder struct {
	prefix string // Environment prefix (staging/prod)
}

// NewKeyBuilder creates a new key builder with environment-based prefix
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	switch environment {
	case "development", "staging", "local":
		prefix = "staging"
	case "test":
		prefix = "test"
	}

	return &KeyBuilder{
		prefix: prefix,
	}
}

// BuildKey constructs a Redis key with the environment prefix
func (kb *KeyBuilder) BuildKey(key string) string {
	return fmt.Sprintf("%s:%s", kb.prefix, key)
}

// GetPrefix returns the current environment prefix
func (kb *KeyBuilder) GetPrefix() string {
	return kb.prefix
}

// KeyJoinLock is held while a participant is being added to a team
func (kb *KeyBuilder) KeyJoinLock(teamID, memberEmail string) string {
	return kb.BuildKey(fmt.Sprintf(KeyJoinLock, teamID, memberEmail))
}

// KeyTeamCreation is held while a leader's team is being created
func (kb *KeyBuilder) KeyTeamCreation(leaderEmail string) string {
	return kb.BuildKey(fmt.Sprintf(KeyTeamCreation, leaderEmail))
}
