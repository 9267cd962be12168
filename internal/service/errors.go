package service

import (
	"context"

	"sih-portal/internal/metrics"
	"sih-portal/internal/notify"
	apperrors "sih-portal/pkg/errors"
)

// Workflow failures. Title and Message are what the participant sees.
var (
	ErrMissingInformation = apperrors.NewValidationError("Missing Information", "Please fill in all required fields.", nil)
	ErrInvalidEmail       = apperrors.NewValidationError("Invalid Email", "Please enter a valid email address.", nil)
	ErrInvalidPhone       = apperrors.NewValidationError("Invalid Phone Number", "Please enter a valid phone number.", nil)
	ErrInvalidSelection   = apperrors.NewValidationError("Invalid Selection", "Please choose one of the listed options.", nil)

	ErrEmailRegistered    = apperrors.NewConflictError("Email Already Registered", "This email has already been used for registration.")
	ErrRegistrationFailed = apperrors.NewExternalError("Registration Failed", "An error occurred during registration. Please try again.", nil)

	ErrCreateInProgress = apperrors.NewConflictError("Team Creation In Progress", "A team for this leader is already being created. Please wait a moment.")
	ErrCreateTeamFailed = apperrors.NewExternalError("Error", "Failed to create team. Please try again.", nil)

	ErrTeamNotFound         = apperrors.NewNotFoundError("Team Not Found", "Please check the team code and try again.")
	ErrTeamNotAvailable     = apperrors.NewUnavailableError("Team Not Available", "This team is no longer accepting new members.")
	ErrRegistrationNotFound = apperrors.NewNotFoundError("Registration Not Found", "Please register before joining a team.")
	ErrAlreadyMember        = apperrors.NewConflictError("Already a Member", "You are already a member of this team.")
	ErrJoinTeamFailed       = apperrors.NewExternalError("Error", "Failed to join team. Please try again.", nil)

	ErrLoadTeamsFailed = apperrors.NewExternalError("Error Loading Teams", "Failed to load teams. Please try again.", nil)
)

// reject notifies the participant of a terminal failure and returns it
func reject(ctx context.Context, n notify.Notifier, workflow string, appErr *apperrors.AppError, cause error) error {
	outcome := metrics.OutcomeRejected
	if appErr.Type == apperrors.ErrorTypeExternal || appErr.Type == apperrors.ErrorTypeInternal {
		outcome = metrics.OutcomeFailed
	}
	metrics.RecordWorkflow(workflow, outcome)

	n.Notify(ctx, notify.Failure(appErr.Title, appErr.Message))

	if cause != nil {
		return appErr.WithInternal(cause)
	}
	return appErr
}

// succeed notifies the participant of a completed workflow
func succeed(ctx context.Context, n notify.Notifier, workflow, title, description string) {
	metrics.RecordWorkflow(workflow, metrics.OutcomeSuccess)
	n.Notify(ctx, notify.Success(title, description))
}
