package service

import (
	"context"
	"strings"

	"sih-portal/internal/domain"
	"sih-portal/internal/metrics"
	"sih-portal/internal/notify"
	"sih-portal/internal/repository"
	"sih-portal/internal/service/auth"
	apperrors "sih-portal/pkg/errors"
	"sih-portal/pkg/logger"
	"sih-portal/pkg/utils"
)

// RegistrationService validates and stores individual registrations
type RegistrationService struct {
	registrations repository.RegistrationRepository
	sessions      *auth.SessionService
	notifier      notify.Notifier
	logger        *logger.Logger
}

// NewRegistrationService creates a registration service. sessions may be nil,
// in which case no session token is issued.
func NewRegistrationService(
	registrations repository.RegistrationRepository,
	sessions *auth.SessionService,
	notifier notify.Notifier,
	log *logger.Logger,
) *RegistrationService {
	return &RegistrationService{
		registrations: registrations,
		sessions:      sessions,
		notifier:      notifier,
		logger:        log.Named("registration"),
	}
}

// Register validates req and inserts it as a single registration.
// Validation failures never reach the store.
func (s *RegistrationService) Register(ctx context.Context, req *domain.RegistrationRequest) (*domain.RegistrationResult, error) {
	reg, appErr := validateRegistration(req)
	if appErr != nil {
		return nil, reject(ctx, s.notifier, metrics.WorkflowRegistration, appErr, nil)
	}

	log := s.logger.WithField("email", utils.MaskEmail(reg.Email))

	if err := s.registrations.Create(ctx, reg); err != nil {
		if _, ok := repository.IsUniqueViolation(err); ok {
			log.Info("Registration rejected, email already registered")
			return nil, reject(ctx, s.notifier, metrics.WorkflowRegistration, ErrEmailRegistered, err)
		}
		log.WithError(err).Error("Failed to store registration")
		return nil, reject(ctx, s.notifier, metrics.WorkflowRegistration, ErrRegistrationFailed, err)
	}

	result := &domain.RegistrationResult{Registration: reg}
	if s.sessions != nil {
		token, err := s.sessions.Issue(reg.Email, reg.FullName)
		if err != nil {
			// Registration is stored; joining falls back to the latest registration
			log.WithError(err).Warn("Failed to issue session token")
		} else {
			result.SessionToken = token
		}
	}

	log.WithField("registration_id", reg.ID).Info("Registration stored")
	succeed(ctx, s.notifier, metrics.WorkflowRegistration,
		"Registration Successful!", "Your registration has been submitted successfully.")

	return result, nil
}

// validateRegistration checks presence, then email, then phone, then the fixed option sets
func validateRegistration(req *domain.RegistrationRequest) (*domain.Registration, *apperrors.AppError) {
	reg := &domain.Registration{
		Email:       strings.TrimSpace(req.Email),
		FullName:    strings.TrimSpace(req.FullName),
		Gender:      domain.Gender(strings.TrimSpace(req.Gender)),
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		Department:  strings.TrimSpace(req.Department),
		Batch:       strings.TrimSpace(req.Batch),
		YearOfStudy: strings.TrimSpace(req.YearOfStudy),
	}

	fields := []struct {
		name  string
		value string
	}{
		{"email", reg.Email},
		{"full_name", reg.FullName},
		{"gender", string(reg.Gender)},
		{"phone_number", reg.PhoneNumber},
		{"department", reg.Department},
		{"batch", reg.Batch},
		{"year_of_study", reg.YearOfStudy},
	}
	var missing []string
	for _, f := range fields {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return nil, ErrMissingInformation.WithDetails(map[string]interface{}{"missing": missing})
	}

	if !utils.IsValidEmail(reg.Email) {
		return nil, ErrInvalidEmail
	}
	if !utils.IsValidPhoneNumber(reg.PhoneNumber) {
		return nil, ErrInvalidPhone
	}

	var invalid []string
	if !domain.IsValidGender(string(reg.Gender)) {
		invalid = append(invalid, "gender")
	}
	if !domain.Contains(domain.Departments, reg.Department) {
		invalid = append(invalid, "department")
	}
	if !domain.Contains(domain.Batches, reg.Batch) {
		invalid = append(invalid, "batch")
	}
	if !domain.Contains(domain.YearsOfStudy, reg.YearOfStudy) {
		invalid = append(invalid, "year_of_study")
	}
	if len(invalid) > 0 {
		return nil, ErrInvalidSelection.WithDetails(map[string]interface{}{"invalid": invalid})
	}

	return reg, nil
}
