package dto

// SubmitApplicationRequest is a student's application payload. Name overrides
// the snapshot of the caller's full name when supplied.
type SubmitApplicationRequest struct {
	Name           string `json:"name" validate:"omitempty,max=200"`
	ActivityType   string `json:"activityType" validate:"required,max=100"`
	ActivityNumber string `json:"activityNumber" validate:"required,max=100"`
	College        string `json:"college" validate:"required,max=200"`
	Department     string `json:"department" validate:"required,max=200"`
	Specialization string `json:"specialization" validate:"required,max=200"`
	Phone          string `json:"phone" validate:"required,max=50"`
	Details        string `json:"details"`
}

// UpdateApplicationStatusRequest is the staff review payload.
type UpdateApplicationStatusRequest struct {
	Status string `json:"status" validate:"required,max=50"`
}

// SubmittedApplication is returned after a successful submission.
type SubmittedApplication struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}
