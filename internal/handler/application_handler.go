package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-activities-api/internal/dto"
	"github.com/noah-isme/campus-activities-api/internal/models"
	"github.com/noah-isme/campus-activities-api/pkg/response"
)

type applicationService interface {
	Submit(ctx context.Context, p *models.Principal, req dto.SubmitApplicationRequest) (*dto.SubmittedApplication, error)
	ListMine(ctx context.Context, p *models.Principal) ([]models.Application, error)
	ListAll(ctx context.Context, p *models.Principal) ([]models.Application, error)
	UpdateStatus(ctx context.Context, p *models.Principal, id int64, req dto.UpdateApplicationStatusRequest) (*models.Application, error)
	Statistics(ctx context.Context, p *models.Principal) (*models.StatusCounts, error)
}

// ApplicationHandler exposes the application workflow.
type ApplicationHandler struct {
	service applicationService
}

// NewApplicationHandler constructs the handler.
func NewApplicationHandler(svc applicationService) *ApplicationHandler {
	return &ApplicationHandler{service: svc}
}

// Submit godoc
// @Summary Submit an application
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.SubmitApplicationRequest true "Application payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /applications/submit [post]
func (h *ApplicationHandler) Submit(c *gin.Context) {
	var req dto.SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	res, err := h.service.Submit(c.Request.Context(), principalFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res, "application submitted")
}

// ListMine godoc
// @Summary List my applications
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /applications/my-applications [get]
func (h *ApplicationHandler) ListMine(c *gin.Context) {
	apps, err := h.service.ListMine(c.Request.Context(), principalFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, apps)
}

// ListAll godoc
// @Summary List all applications
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /applications/all [get]
func (h *ApplicationHandler) ListAll(c *gin.Context) {
	apps, err := h.service.ListAll(c.Request.Context(), principalFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, apps)
}

// UpdateStatus godoc
// @Summary Review an application
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param payload body dto.UpdateApplicationStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /applications/{id}/status [put]
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateApplicationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	id := pathID(c, "id")
	app, err := h.service.UpdateStatus(c.Request.Context(), principalFromContext(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, app, "application status updated")
}

// Statistics godoc
// @Summary Application statistics
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /applications/statistics [get]
func (h *ApplicationHandler) Statistics(c *gin.Context) {
	stats, err := h.service.Statistics(c.Request.Context(), principalFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, stats)
}
