package dto

import (
	"time"

	"github.com/noah-isme/campus-activities-api/internal/models"
)

// CreateActivityRequest is the staff payload for a new activity. Dates are
// ISO 8601 text and availableSlots is a pointer so an explicit 0 still counts
// as present.
type CreateActivityRequest struct {
	Name           string `json:"name" validate:"required,max=200"`
	Description    string `json:"description" validate:"required"`
	Category       string `json:"category" validate:"required,max=100"`
	AvailableSlots *int   `json:"availableSlots" validate:"required,min=0"`
	Location       string `json:"location" validate:"required,max=200"`
	StartDate      string `json:"startDate" validate:"required"`
	EndDate        string `json:"endDate" validate:"required"`
	IsActive       *bool  `json:"isActive"`
}

// ActivityView is the student-facing projection of an activity.
type ActivityView struct {
	ID                 int64      `json:"id"`
	Name               string     `json:"name"`
	Description        *string    `json:"description"`
	Category           string     `json:"category"`
	AvailableSlots     int        `json:"availableSlots"`
	RegisteredCount    int        `json:"registeredCount"`
	SlotsRemaining     int        `json:"slotsRemaining"`
	IsFull             bool       `json:"isFull"`
	Location           *string    `json:"location"`
	StartDate          *time.Time `json:"startDate"`
	EndDate            *time.Time `json:"endDate"`
	IsActive           bool       `json:"isActive"`
	IsRegistered       bool       `json:"isRegistered"`
	RegistrationStatus *string    `json:"registrationStatus"`
}

// NewActivityView projects an activity without registration annotations.
func NewActivityView(a models.Activity) ActivityView {
	return ActivityView{
		ID:              a.ID,
		Name:            a.Name,
		Description:     a.Description,
		Category:        a.Category,
		AvailableSlots:  a.AvailableSlots,
		RegisteredCount: a.RegisteredCount,
		SlotsRemaining:  a.SlotsRemaining(),
		IsFull:          a.IsFull(),
		Location:        a.Location,
		StartDate:       a.StartDate,
		EndDate:         a.EndDate,
		IsActive:        a.IsActive,
	}
}

// ActivityWithStatus is an activity row joined with the caller's registration.
type ActivityWithStatus struct {
	models.Activity
	RegistrationStatus *string `db:"registration_status"`
}

// RegistrationView is one of the caller's registrations with its activity.
type RegistrationView struct {
	ID           int64                `json:"id"`
	Status       string               `json:"status"`
	RegisteredAt time.Time            `json:"registeredAt"`
	Activity     RegistrationActivity `json:"activity"`
}

// RegistrationActivity is the public subset of an activity embedded in a
// registration.
type RegistrationActivity struct {
	ID          int64   `db:"activity_id" json:"id"`
	Name        string  `db:"activity_name" json:"name"`
	Description *string `db:"activity_description" json:"description"`
	Category    string  `db:"activity_category" json:"category"`
	Location    *string `db:"activity_location" json:"location"`
}

// RegistrationRow is the flat scan target for RegistrationView.
type RegistrationRow struct {
	ID           int64     `db:"id"`
	Status       string    `db:"status"`
	RegisteredAt time.Time `db:"registered_at"`
	RegistrationActivity
}

// RosterEntry is a registered user as seen by staff.
type RosterEntry struct {
	ActivityID   int64     `db:"activity_id" json:"-"`
	ID           int64     `db:"user_id" json:"id"`
	Name         string    `db:"full_name" json:"name"`
	Email        string    `db:"email" json:"email"`
	RegisteredAt time.Time `db:"registered_at" json:"registeredAt"`
	Status       string    `db:"status" json:"status"`
}

// ActivityRoster is the staff view of an activity with every registrant.
type ActivityRoster struct {
	ActivityView
	Students []RosterEntry `json:"students"`
}
