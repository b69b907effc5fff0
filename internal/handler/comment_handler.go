package handler

import (
	"errors"

	"github.com/danbi-app/danbi-backend/internal/common"
	"github.com/danbi-app/danbi-backend/internal/domain"
	"github.com/danbi-app/danbi-backend/internal/middleware"
	"github.com/danbi-app/danbi-backend/internal/service"
	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	service service.CommentService
}

func NewCommentHandler(service service.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

// ListComments handles GET /api/v1/reports/:id/comments?scheduled=true
// Without the flag it returns the live timeline; with it, the caller's
// own not-yet-due comments.
func (h *CommentHandler) ListComments(c *gin.Context) {
	caller := middleware.GetAuthUser(c)
	scheduledOnly := c.Query("scheduled") == "true"

	data, err := h.service.List(caller, c.Param("id"), scheduledOnly)
	switch {
	case errors.Is(err, common.ErrReportNotFound):
		common.ErrorResponse(c, 404, "Report not found", err)
	case errors.Is(err, common.ErrForbidden):
		common.ErrorResponse(c, 403, "No permission to view this report", err)
	case err != nil:
		common.ErrorResponse(c, 500, "Failed to fetch comments", err)
	default:
		common.SuccessResponse(c, data, nil)
	}
}

// CreateComment handles POST /api/v1/reports/:id/comments
func (h *CommentHandler) CreateComment(c *gin.Context) {
	caller := middleware.GetAuthUser(c)

	var req domain.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	data, err := h.service.Create(caller, c.Param("id"), &req)
	switch {
	case errors.Is(err, common.ErrContentRequired):
		common.ErrorResponse(c, 400, "Content is required", err)
	case errors.Is(err, common.ErrInvalidScheduledAt):
		common.ErrorResponse(c, 400, "scheduledAt must be an RFC3339 timestamp", err)
	case errors.Is(err, common.ErrReportNotFound):
		common.ErrorResponse(c, 404, "Report not found", err)
	case errors.Is(err, common.ErrForbidden):
		common.ErrorResponse(c, 403, "No permission to comment on this report", err)
	case err != nil:
		common.ErrorResponse(c, 500, "Failed to create comment", err)
	default:
		c.JSON(201, common.APIResponse{Data: data})
	}
}

// UpdateComment handles PATCH /api/v1/reports/:id/comments/:commentId
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	caller := middleware.GetAuthUser(c)

	var req domain.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	data, err := h.service.Update(caller, c.Param("id"), c.Param("commentId"), &req)
	switch {
	case errors.Is(err, common.ErrContentRequired):
		common.ErrorResponse(c, 400, "Content is required", err)
	case errors.Is(err, common.ErrCommentNotFound):
		common.ErrorResponse(c, 404, "Comment not found", err)
	case errors.Is(err, common.ErrReportNotFound):
		common.ErrorResponse(c, 404, "Report not found", err)
	case err != nil:
		common.ErrorResponse(c, 500, "Failed to update comment", err)
	default:
		common.SuccessResponse(c, data, nil)
	}
}

// DeleteComment handles DELETE /api/v1/reports/:id/comments/:commentId
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	caller := middleware.GetAuthUser(c)

	err := h.service.Delete(caller, c.Param("id"), c.Param("commentId"))
	switch {
	case errors.Is(err, common.ErrCommentNotFound):
		common.ErrorResponse(c, 404, "Comment not found", err)
	case errors.Is(err, common.ErrReportNotFound):
		common.ErrorResponse(c, 404, "Report not found", err)
	case err != nil:
		common.ErrorResponse(c, 500, "Failed to delete comment", err)
	default:
		c.Status(204)
	}
}
