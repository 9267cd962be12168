package domain

import "time"

// Gender values offered by the registration form
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Genders lists the accepted gender values in display order
var Genders = []Gender{GenderMale, GenderFemale, GenderOther}

// Departments lists the accepted departments in display order
var Departments = []string{
	"Computer Science Engineering",
	"Electronics & Communication",
	"Electrical & Electronics",
	"Mechanical Engineering",
	"Civil Engineering",
}

// Batches lists the accepted batches
var Batches = []string{"S1", "S3", "S5", "S7"}

// YearsOfStudy lists the accepted years of study
var YearsOfStudy = []string{"First Year", "Second Year", "Third Year", "Fourth Year"}

// Registration is one participant's individual registration
type Registration struct {
	ID          string    `json:"id,omitempty"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	Gender      Gender    `json:"gender"`
	PhoneNumber string    `json:"phone_number"`
	Department  string    `json:"department"`
	Batch       string    `json:"batch"`
	YearOfStudy string    `json:"year_of_study"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// RegistrationRequest is the submitted registration form
type RegistrationRequest struct {
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	Gender      string `json:"gender"`
	PhoneNumber string `json:"phone_number"`
	Department  string `json:"department"`
	Batch       string `json:"batch"`
	YearOfStudy string `json:"year_of_study"`
}

// RegistrationResult is returned after a successful registration
type RegistrationResult struct {
	Registration *Registration `json:"registration"`
	SessionToken string        `json:"session_token,omitempty"`
}

// Participant is the acting person in the join workflow
type Participant struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// IsValidGender reports whether g is one of Genders
func IsValidGender(g string) bool {
	for _, v := range Genders {
		if string(v) == g {
			return true
		}
	}
	return false
}

// Contains reports whether value is in options
func Contains(options []string, value string) bool {
	for _, o := range options {
		if o == value {
			return true
		}
	}
	return false
}
