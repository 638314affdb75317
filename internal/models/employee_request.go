package models

import "time"

// RequestStatus is the lifecycle of a directed request.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

// EmployeeRequest is a staff-authored directive. A nil StudentID is a
// broadcast to all students until the first responder claims it.
type EmployeeRequest struct {
	ID              int64         `db:"id" json:"id"`
	EmployeeID      int64         `db:"employee_id" json:"employeeId"`
	StudentID       *int64        `db:"student_id" json:"studentId"`
	RequestType     string        `db:"request_type" json:"requestType"`
	Title           string        `db:"title" json:"title"`
	Description     string        `db:"description" json:"description"`
	ActivityName    *string       `db:"activity_name" json:"activityName"`
	ActivityCode    *string       `db:"activity_code" json:"activityCode"`
	Deadline        *time.Time    `db:"deadline" json:"deadline"`
	Status          RequestStatus `db:"status" json:"status"`
	ResponseMessage *string       `db:"response_message" json:"responseMessage"`
	CreatedAt       time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time     `db:"updated_at" json:"updatedAt"`
	RespondedAt     *time.Time    `db:"responded_at" json:"respondedAt"`
}

// IsBroadcast reports whether no student is bound yet.
func (r *EmployeeRequest) IsBroadcast() bool {
	return r.StudentID == nil
}

// AddressedTo reports whether studentID may see and answer the request.
func (r *EmployeeRequest) AddressedTo(studentID int64) bool {
	return r.StudentID == nil || *r.StudentID == studentID
}
