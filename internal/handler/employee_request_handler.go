package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-activities-api/internal/dto"
	"github.com/noah-isme/campus-activities-api/internal/models"
	"github.com/noah-isme/campus-activities-api/pkg/response"
)

type employeeRequestService interface {
	Send(ctx context.Context, p *models.Principal, req dto.SendRequestPayload) (*dto.RequestView, error)
	ListMine(ctx context.Context, p *models.Principal) ([]dto.RequestView, error)
	ListForStudent(ctx context.Context, p *models.Principal) ([]dto.RequestView, error)
	Respond(ctx context.Context, p *models.Principal, id int64, req dto.RespondRequestPayload) (*dto.RequestView, error)
	Statistics(ctx context.Context, p *models.Principal) (*models.StatusCounts, error)
}

// EmployeeRequestHandler exposes staff requests to both roles.
type EmployeeRequestHandler struct {
	service employeeRequestService
}

// NewEmployeeRequestHandler constructs the handler.
func NewEmployeeRequestHandler(svc employeeRequestService) *EmployeeRequestHandler {
	return &EmployeeRequestHandler{service: svc}
}

// Send godoc
// @Summary Send a request to a student or all students
// @Tags Employee
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.SendRequestPayload true "Request payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /employee/requests/send [post]
func (h *EmployeeRequestHandler) Send(c *gin.Context) {
	var req dto.SendRequestPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	view, err := h.service.Send(c.Request.Context(), principalFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, view, "request sent")
}

// ListMine godoc
// @Summary List requests I sent
// @Tags Employee
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /employee/requests/my-requests [get]
func (h *EmployeeRequestHandler) ListMine(c *gin.Context) {
	items, err := h.service.ListMine(c.Request.Context(), principalFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

// Statistics godoc
// @Summary Statistics for requests I sent
// @Tags Employee
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /employee/requests/statistics [get]
func (h *EmployeeRequestHandler) Statistics(c *gin.Context) {
	stats, err := h.service.Statistics(c.Request.Context(), principalFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, stats)
}

// ListForStudent godoc
// @Summary List requests addressed to me
// @Description Requests bound to the caller plus unclaimed broadcasts
// @Tags Student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /student/requests [get]
func (h *EmployeeRequestHandler) ListForStudent(c *gin.Context) {
	items, err := h.service.ListForStudent(c.Request.Context(), principalFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

// Respond godoc
// @Summary Answer a request
// @Tags Student
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param payload body dto.RespondRequestPayload true "Response payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /student/requests/{id}/respond [put]
func (h *EmployeeRequestHandler) Respond(c *gin.Context) {
	var req dto.RespondRequestPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	id := pathID(c, "id")
	view, err := h.service.Respond(c.Request.Context(), principalFromContext(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, view, "response recorded")
}
