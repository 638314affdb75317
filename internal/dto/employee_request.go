package dto

import (
	"time"

	"github.com/noah-isme/campus-activities-api/internal/models"
)

// BroadcastStudentName is shown in place of a student name for unclaimed
// broadcast requests.
const BroadcastStudentName = "All students"

// SendRequestPayload is the staff payload for a directed or broadcast request.
type SendRequestPayload struct {
	StudentID    *int64 `json:"studentId" validate:"omitempty,gt=0"`
	RequestType  string `json:"requestType" validate:"required,max=100"`
	Title        string `json:"title" validate:"required,max=200"`
	Description  string `json:"description" validate:"required"`
	ActivityName string `json:"activityName" validate:"omitempty,max=200"`
	ActivityCode string `json:"activityCode" validate:"omitempty,max=100"`
	Deadline     string `json:"deadline"`
}

// RespondRequestPayload is a student's answer to a request.
type RespondRequestPayload struct {
	Status          string `json:"status" validate:"required,oneof=approved rejected"`
	ResponseMessage string `json:"responseMessage"`
}

// RequestRow is an employee request joined with the names of its author and
// bound student, looked up at read time.
type RequestRow struct {
	models.EmployeeRequest
	EmployeeName *string `db:"employee_name"`
	StudentName  *string `db:"student_name"`
}

// RequestView is the wire projection of an employee request.
type RequestView struct {
	ID              int64      `json:"id"`
	EmployeeID      int64      `json:"employeeId"`
	EmployeeName    string     `json:"employeeName"`
	StudentID       *int64     `json:"studentId"`
	StudentName     string     `json:"studentName"`
	RequestType     string     `json:"requestType"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	ActivityName    *string    `json:"activityName"`
	ActivityCode    *string    `json:"activityCode"`
	Deadline        *time.Time `json:"deadline"`
	Status          string     `json:"status"`
	ResponseMessage *string    `json:"responseMessage"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	RespondedAt     *time.Time `json:"respondedAt"`
}

// NewRequestView projects a joined row.
func NewRequestView(row RequestRow) RequestView {
	employeeName := "Unknown"
	if row.EmployeeName != nil {
		employeeName = *row.EmployeeName
	}
	studentName := BroadcastStudentName
	if row.StudentID != nil {
		studentName = "Unknown"
		if row.StudentName != nil {
			studentName = *row.StudentName
		}
	}
	return RequestView{
		ID:              row.ID,
		EmployeeID:      row.EmployeeID,
		EmployeeName:    employeeName,
		StudentID:       row.StudentID,
		StudentName:     studentName,
		RequestType:     row.RequestType,
		Title:           row.Title,
		Description:     row.Description,
		ActivityName:    row.ActivityName,
		ActivityCode:    row.ActivityCode,
		Deadline:        row.Deadline,
		Status:          string(row.Status),
		ResponseMessage: row.ResponseMessage,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
		RespondedAt:     row.RespondedAt,
	}
}
