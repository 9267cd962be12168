package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_IsMatchesSentinel(t *testing.T) {
	sentinel := NewConflictError("Already a Member", "You are already a member of this team.")
	wrapped := fmt.Errorf("join: %w", sentinel.WithInternal(stderrors.New("23505")))

	assert.True(t, stderrors.Is(wrapped, sentinel))
	assert.False(t, stderrors.Is(wrapped, NewConflictError("Email Already Registered", "")))
	assert.False(t, stderrors.Is(
		NewExternalError("Error", "Failed to join team. Please try again.", nil),
		NewExternalError("Error", "Failed to create team. Please try again.", nil),
	))
}

func TestAppError_ErrorIncludesInternal(t *testing.T) {
	err := NewExternalError("Error", "Failed to join team.", stderrors.New("connection reset"))
	assert.Equal(t, "external: Failed to join team. (connection reset)", err.Error())
	assert.Equal(t, http.StatusBadGateway, err.StatusCode)
}

func TestAs(t *testing.T) {
	t.Run("classified error is returned as is", func(t *testing.T) {
		original := NewNotFoundError("Team Not Found", "Please check the team code and try again.")
		got := As(fmt.Errorf("wrap: %w", original))
		require.NotNil(t, got)
		assert.Equal(t, ErrorTypeNotFound, got.Type)
		assert.Equal(t, http.StatusNotFound, got.StatusCode)
	})

	t.Run("unclassified error becomes internal", func(t *testing.T) {
		got := As(stderrors.New("boom"))
		require.NotNil(t, got)
		assert.Equal(t, ErrorTypeInternal, got.Type)
		assert.Equal(t, http.StatusInternalServerError, got.StatusCode)
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, As(nil))
	})
}

func TestWithDetailsDoesNotMutateSentinel(t *testing.T) {
	sentinel := NewValidationError("Missing Information", "Please fill in all required fields.", nil)
	withDetails := sentinel.WithDetails(map[string]interface{}{"missing_fields": []string{"email"}})

	assert.Nil(t, sentinel.Details)
	assert.NotNil(t, withDetails.Details)
}
