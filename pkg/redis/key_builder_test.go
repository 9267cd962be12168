package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyBuilder_Environment_Prefixes(t *testing.T) {
	tests := []struct {
		environment    string
		expectedPrefix string
	}{
		{"production", "prod"},
		{"", "prod"},
		{"development", "staging"},
		{"staging", "staging"},
		{"local", "staging"},
		{"test", "test"},
	}

	for _, tt := range tests {
		t.Run(tt.environment, func(t *testing.T) {
			kb := NewKeyBuilder(tt.environment)
			assert.Equal(t, tt.expectedPrefix, kb.GetPrefix())
		})
	}
}

func TestKeyBuilder_KeyGeneration(t *testing.T) {
	kb := NewKeyBuilder("production")

	assert.Equal(t, "prod:team:7f1c:join:a@b.co", kb.KeyJoinLock("7f1c", "a@b.co"))
	assert.Equal(t, "prod:team:create:lead@b.co", kb.KeyTeamCreation("lead@b.co"))
}

func TestKeyBuilder_EmailCaseIsPreserved(t *testing.T) {
	kb := NewKeyBuilder("production")

	// Membership is keyed on the email exactly as stored.
	assert.NotEqual(t, kb.KeyJoinLock("t1", "A@b.co"), kb.KeyJoinLock("t1", "a@b.co"))
}

func TestKeyBuilder_EnvironmentSeparation(t *testing.T) {
	prod := NewKeyBuilder("production")
	staging := NewKeyBuilder("development")

	assert.NotEqual(t, prod.KeyJoinLock("t1", "a@b.co"), staging.KeyJoinLock("t1", "a@b.co"))
}
