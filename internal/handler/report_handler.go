package handler

import (
	"errors"
	"strings"

	"github.com/danbi-app/danbi-backend/internal/common"
	"github.com/danbi-app/danbi-backend/internal/domain"
	"github.com/danbi-app/danbi-backend/internal/middleware"
	"github.com/danbi-app/danbi-backend/internal/service"
	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(service service.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// ListReports handles GET /api/v1/reports?petId=&groupIds=&groupId=&mineOnly=
func (h *ReportHandler) ListReports(c *gin.Context) {
	caller := middleware.GetAuthUser(c)

	// groupIds (comma-separated) wins over the legacy single groupId
	var groupIDs []string
	if raw := c.Query("groupIds"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id != "" {
				groupIDs = append(groupIDs, id)
			}
		}
	} else if id := c.Query("groupId"); id != "" {
		groupIDs = []string{id}
	}

	opts := service.ReportListOptions{
		PetID:    c.Query("petId"),
		GroupIDs: groupIDs,
		MineOnly: c.Query("mineOnly") == "true",
	}

	data, err := h.service.List(caller, opts)
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to fetch reports", err)
		return
	}
	common.SuccessResponse(c, data, nil)
}

// CreateReport handles POST /api/v1/reports
func (h *ReportHandler) CreateReport(c *gin.Context) {
	caller := middleware.GetAuthUser(c)

	var req domain.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	data, err := h.service.Create(caller, &req)
	switch {
	case errors.Is(err, common.ErrPetRequired):
		common.ErrorResponse(c, 400, "A pet must be selected", err)
	case errors.Is(err, common.ErrContentRequired):
		common.ErrorResponse(c, 400, "Content is required", err)
	case errors.Is(err, common.ErrContentTooLong):
		common.ErrorResponse(c, 400, "Content must be at most 5000 characters", err)
	case errors.Is(err, common.ErrMediaCountInvalid):
		common.ErrorResponse(c, 400, "Between 1 and 10 photos can be attached", err)
	case errors.Is(err, common.ErrForbidden):
		common.ErrorResponse(c, 403, "No permission to write for this pet", err)
	case errors.Is(err, common.ErrPetNotFound):
		common.ErrorResponse(c, 404, "Pet not found", err)
	case err != nil:
		common.ErrorResponse(c, 500, "Failed to create report", err)
	default:
		c.JSON(201, common.APIResponse{Data: data})
	}
}

// GetReport handles GET /api/v1/reports/:id
func (h *ReportHandler) GetReport(c *gin.Context) {
	caller := middleware.GetAuthUser(c)

	data, err := h.service.Get(caller, c.Param("id"))
	switch {
	case errors.Is(err, common.ErrReportNotFound):
		common.ErrorResponse(c, 404, "Report not found", err)
	case errors.Is(err, common.ErrForbidden):
		common.ErrorResponse(c, 403, "No permission to view this report", err)
	case err != nil:
		common.ErrorResponse(c, 500, "Failed to fetch report", err)
	default:
		common.SuccessResponse(c, data, nil)
	}
}

// UpdateReport handles PATCH /api/v1/reports/:id
func (h *ReportHandler) UpdateReport(c *gin.Context) {
	caller := middleware.GetAuthUser(c)

	var req domain.UpdateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	data, err := h.service.Update(caller, c.Param("id"), &req)
	switch {
	case errors.Is(err, common.ErrReportNotFound):
		common.ErrorResponse(c, 404, "Report not found", err)
	case errors.Is(err, common.ErrGuardianPostLocked):
		common.ErrorResponse(c, 403, "A guardian-authored report cannot be edited", err)
	case errors.Is(err, common.ErrForbidden):
		common.ErrorResponse(c, 403, "No permission to edit this report", err)
	case errors.Is(err, common.ErrContentTooLong):
		common.ErrorResponse(c, 400, "Content must be at most 5000 characters", err)
	case errors.Is(err, common.ErrMediaCountInvalid):
		common.ErrorResponse(c, 400, "Between 1 and 10 photos can be attached", err)
	case errors.Is(err, common.ErrInvalidInput):
		common.ErrorResponse(c, 400, "Invalid daily record payload", err)
	case err != nil:
		common.ErrorResponse(c, 500, "Failed to update report", err)
	default:
		common.SuccessResponse(c, data, nil)
	}
}

// DeleteReport handles DELETE /api/v1/reports/:id
func (h *ReportHandler) DeleteReport(c *gin.Context) {
	caller := middleware.GetAuthUser(c)

	err := h.service.Delete(caller, c.Param("id"))
	switch {
	case errors.Is(err, common.ErrReportNotFound):
		common.ErrorResponse(c, 404, "Report not found", err)
	case errors.Is(err, common.ErrGuardianPostLocked):
		common.ErrorResponse(c, 403, "A guardian-authored report cannot be deleted", err)
	case errors.Is(err, common.ErrForbidden):
		common.ErrorResponse(c, 403, "No permission to delete this report", err)
	case err != nil:
		common.ErrorResponse(c, 500, "Failed to delete report", err)
	default:
		c.Status(204)
	}
}

// UnreadCount handles GET /api/v1/reports/unread-count
func (h *ReportHandler) UnreadCount(c *gin.Context) {
	caller := middleware.GetAuthUser(c)

	count, err := h.service.UnreadCount(caller)
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to count unread reports", err)
		return
	}
	common.SuccessResponse(c, &domain.UnreadCountResponse{Count: count}, nil)
}

// MarkRead handles POST /api/v1/reports/:id/read
func (h *ReportHandler) MarkRead(c *gin.Context) {
	caller := middleware.GetAuthUser(c)

	err := h.service.MarkRead(caller, c.Param("id"))
	switch {
	case errors.Is(err, common.ErrReportNotFound):
		common.ErrorResponse(c, 404, "Report not found", err)
	case errors.Is(err, common.ErrForbidden):
		common.ErrorResponse(c, 403, "No permission to view this report", err)
	case err != nil:
		common.ErrorResponse(c, 500, "Failed to mark report as read", err)
	default:
		common.SuccessResponse(c, gin.H{"success": true}, nil)
	}
}

// Remind handles POST /api/v1/reports/:id/remind
func (h *ReportHandler) Remind(c *gin.Context) {
	caller := middleware.GetAuthUser(c)

	data, err := h.service.Remind(caller, c.Param("id"))
	switch {
	case errors.Is(err, common.ErrReportNotFound):
		common.ErrorResponse(c, 404, "Report not found", err)
	case errors.Is(err, common.ErrForbidden):
		common.ErrorResponse(c, 403, "No permission for this report", err)
	case err != nil:
		common.ErrorResponse(c, 500, "Failed to send reminder", err)
	default:
		common.SuccessResponse(c, data, nil)
	}
}
