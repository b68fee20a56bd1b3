package session

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/emotiquest/emotiquest/internal/validation"
)

// Gender is the self-reported gender of a student. The values double as the
// avatar catalog keys.
type Gender string

const (
	GenderMale        Gender = "masculino"
	GenderFemale      Gender = "femenino"
	GenderUnspecified Gender = "pnd"
)

// Genders lists the accepted values in form order.
var Genders = []Gender{GenderMale, GenderFemale, GenderUnspecified}

// Valid reports whether g is one of the accepted values.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderUnspecified:
		return true
	}
	return false
}

// Label returns the form label for g.
func (g Gender) Label() string {
	switch g {
	case GenderMale:
		return "Masculino"
	case GenderFemale:
		return "Femenino"
	case GenderUnspecified:
		return "Prefiero no decir"
	}
	return string(g)
}

const (
	MinNameLength = 2
	MinAge        = 5
	MaxAge        = 100
)

// Field error messages shown next to the login form fields.
const (
	MsgName   = "El nombre debe tener al menos 2 caracteres"
	MsgGender = "Debes seleccionar un género"
	MsgAge    = "La edad debe estar entre 5 y 100 años"
	MsgGrade  = "Debes seleccionar tu nivel de escolaridad"
)

// Grades are the suggested schooling levels offered by the login form.
var Grades = []string{
	"1ro", "2do", "3ro", "4to", "5to", "6to",
	"Secundaria", "Preparatoria", "Universidad", "Otro",
}

// ProfileInput is the raw form data collected at the identity step.
type ProfileInput struct {
	Name   string
	Gender Gender
	Age    int
	Grade  string
}

// Profile is the current user. It is immutable once created.
type Profile struct {
	ID               string `json:"id"`
	Name             string `json:"nombre"`
	Gender           Gender `json:"genero"`
	Age              int    `json:"edad"`
	Grade            string `json:"grado"`
	RegistrationDate string `json:"fechaRegistro"`
	RegistrationTime string `json:"horaRegistro"`
}

// ValidateProfile checks every field and reports all violations at once.
func ValidateProfile(in ProfileInput) error {
	verr := &validation.Error{}
	if utf8.RuneCountInString(strings.TrimSpace(in.Name)) < MinNameLength {
		verr.Add("nombre", MsgName)
	}
	if !in.Gender.Valid() {
		verr.Add("genero", MsgGender)
	}
	if in.Age < MinAge || in.Age > MaxAge {
		verr.Add("edad", MsgAge)
	}
	if strings.TrimSpace(in.Grade) == "" {
		verr.Add("grado", MsgGrade)
	}
	return verr.Err()
}

// NewProfile builds a Profile from validated input.
func NewProfile(id string, in ProfileInput, now time.Time) Profile {
	return Profile{
		ID:               id,
		Name:             strings.TrimSpace(in.Name),
		Gender:           in.Gender,
		Age:              in.Age,
		Grade:            strings.TrimSpace(in.Grade),
		RegistrationDate: now.Format(DateLayout),
		RegistrationTime: now.Format("15:04:05"),
	}
}

// FirstName returns the first word of the profile name.
func (p Profile) FirstName() string {
	if f := strings.Fields(p.Name); len(f) > 0 {
		return f[0]
	}
	return p.Name
}

// Check validates a profile read back from storage.
func (p Profile) Check() error {
	if p.ID == "" {
		return validation.New("id", "required")
	}
	return ValidateProfile(ProfileInput{Name: p.Name, Gender: p.Gender, Age: p.Age, Grade: p.Grade})
}
