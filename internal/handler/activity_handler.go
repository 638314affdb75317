package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-activities-api/internal/dto"
	"github.com/noah-isme/campus-activities-api/internal/models"
	"github.com/noah-isme/campus-activities-api/pkg/response"
)

type activityService interface {
	List(ctx context.Context, p *models.Principal) ([]dto.ActivityView, error)
	Register(ctx context.Context, p *models.Principal, activityID int64) (*models.ActivityRegistration, error)
	MyRegistrations(ctx context.Context, p *models.Principal) ([]dto.RegistrationView, error)
	Add(ctx context.Context, p *models.Principal, req dto.CreateActivityRequest) (*dto.ActivityView, error)
	ListWithRoster(ctx context.Context, p *models.Principal) ([]dto.ActivityRoster, error)
}

// ActivityHandler exposes the activity registry.
type ActivityHandler struct {
	service activityService
}

// NewActivityHandler constructs the handler.
func NewActivityHandler(svc activityService) *ActivityHandler {
	return &ActivityHandler{service: svc}
}

// List godoc
// @Summary List active activities
// @Description Active activities with the caller's registration status
// @Tags Activities
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /activities [get]
func (h *ActivityHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), principalFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

// Register godoc
// @Summary Register for an activity
// @Tags Activities
// @Produce json
// @Security BearerAuth
// @Param id path int true "Activity ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /activities/{id}/register [post]
func (h *ActivityHandler) Register(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	reg, err := h.service.Register(c.Request.Context(), principalFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, reg, "registered for activity")
}

// MyRegistrations godoc
// @Summary List my registrations
// @Tags Activities
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /activities/my-registrations [get]
func (h *ActivityHandler) MyRegistrations(c *gin.Context) {
	items, err := h.service.MyRegistrations(c.Request.Context(), principalFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

// Add godoc
// @Summary Create an activity
// @Tags Employee
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateActivityRequest true "Activity payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /employee/activities/add [post]
func (h *ActivityHandler) Add(c *gin.Context) {
	var req dto.CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	activity, err := h.service.Add(c.Request.Context(), principalFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, activity, "activity created")
}

// Roster godoc
// @Summary List activities with registrants
// @Tags Employee
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /employee/activities [get]
func (h *ActivityHandler) Roster(c *gin.Context) {
	items, err := h.service.ListWithRoster(c.Request.Context(), principalFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}
