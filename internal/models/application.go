package models

import "time"

// ApplicationStatus tracks staff review of an application.
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// Known reports whether s is one of pending, approved or rejected.
func (s ApplicationStatus) Known() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusApproved, ApplicationStatusRejected:
		return true
	}
	return false
}

// Application is a student's freeform request. ActivityNumber is the code the
// student typed, not a reference to activities.id. StudentName is captured at
// submission time.
type Application struct {
	ID             int64             `db:"id" json:"id"`
	UserID         int64             `db:"user_id" json:"userId"`
	StudentName    string            `db:"student_name" json:"studentName"`
	ActivityType   string            `db:"activity_type" json:"activityType"`
	ActivityNumber string            `db:"activity_number" json:"activityNumber"`
	College        string            `db:"college" json:"college"`
	Department     string            `db:"department" json:"department"`
	Specialization string            `db:"specialization" json:"specialization"`
	Phone          string            `db:"phone" json:"phone"`
	Details        *string           `db:"details" json:"details"`
	Status         ApplicationStatus `db:"status" json:"status"`
	SubmittedAt    time.Time         `db:"submitted_at" json:"submittedAt"`
	UpdatedAt      time.Time         `db:"updated_at" json:"updatedAt"`
}
