package models

import "time"

// RegistrationStatus is the free-text state of an activity registration.
type RegistrationStatus string

const (
	RegistrationStatusRegistered RegistrationStatus = "registered"
	RegistrationStatusAttended   RegistrationStatus = "attended"
	RegistrationStatusAbsent     RegistrationStatus = "absent"
	RegistrationStatusCancelled  RegistrationStatus = "cancelled"
)

// Activity is an offering with finite capacity.
type Activity struct {
	ID              int64      `db:"id" json:"id"`
	Name            string     `db:"name" json:"name"`
	Description     *string    `db:"description" json:"description"`
	Category        string     `db:"category" json:"category"`
	AvailableSlots  int        `db:"available_slots" json:"availableSlots"`
	RegisteredCount int        `db:"registered_count" json:"registeredCount"`
	Location        *string    `db:"location" json:"location"`
	StartDate       *time.Time `db:"start_date" json:"startDate"`
	EndDate         *time.Time `db:"end_date" json:"endDate"`
	IsActive        bool       `db:"is_active" json:"isActive"`
	CreatedAt       time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updatedAt"`
}

// IsFull reports whether no slot remains.
func (a *Activity) IsFull() bool {
	return a.RegisteredCount >= a.AvailableSlots
}

// SlotsRemaining never goes below zero.
func (a *Activity) SlotsRemaining() int {
	if remaining := a.AvailableSlots - a.RegisteredCount; remaining > 0 {
		return remaining
	}
	return 0
}

// ActivityRegistration joins a user to an activity. (ActivityID, UserID) is unique.
type ActivityRegistration struct {
	ID           int64              `db:"id" json:"id"`
	ActivityID   int64              `db:"activity_id" json:"activityId"`
	UserID       int64              `db:"user_id" json:"userId"`
	Status       RegistrationStatus `db:"status" json:"status"`
	RegisteredAt time.Time          `db:"registered_at" json:"registeredAt"`
	UpdatedAt    time.Time          `db:"updated_at" json:"updatedAt"`
}
