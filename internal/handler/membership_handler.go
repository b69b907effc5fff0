package handler

import (
	"errors"

	"github.com/danbi-app/danbi-backend/internal/common"
	"github.com/danbi-app/danbi-backend/internal/domain"
	"github.com/danbi-app/danbi-backend/internal/middleware"
	"github.com/danbi-app/danbi-backend/internal/service"
	"github.com/gin-gonic/gin"
)

type MembershipHandler struct {
	service service.MembershipService
}

func NewMembershipHandler(service service.MembershipService) *MembershipHandler {
	return &MembershipHandler{service: service}
}

// ListMine handles GET /api/v1/memberships
func (h *MembershipHandler) ListMine(c *gin.Context) {
	caller := middleware.GetAuthUser(c)

	data, err := h.service.ListMine(caller)
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to fetch memberships", err)
		return
	}
	common.SuccessResponse(c, data, nil)
}

// ListPending handles GET /api/v1/groups/:id/requests
func (h *MembershipHandler) ListPending(c *gin.Context) {
	caller := middleware.GetAuthUser(c)

	data, err := h.service.ListPending(caller, c.Param("id"))
	switch {
	case errors.Is(err, common.ErrForbidden):
		common.ErrorResponse(c, 403, "Admin role required", err)
	case errors.Is(err, common.ErrGroupNotFound):
		common.ErrorResponse(c, 404, "Group not found", err)
	case err != nil:
		common.ErrorResponse(c, 500, "Failed to fetch pending requests", err)
	default:
		common.SuccessResponse(c, data, nil)
	}
}

// Join handles POST /api/v1/memberships
func (h *MembershipHandler) Join(c *gin.Context) {
	caller := middleware.GetAuthUser(c)

	var req domain.JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	data, err := h.service.Join(caller, &req)
	switch {
	case errors.Is(err, common.ErrInvalidInput):
		common.ErrorResponse(c, 400, "groupId and petId are required", err)
	case errors.Is(err, common.ErrGroupNotFound):
		common.ErrorResponse(c, 404, "Group not found", err)
	case errors.Is(err, common.ErrForbidden):
		common.ErrorResponse(c, 403, "Only the pet's owner can request enrollment", err)
	case errors.Is(err, common.ErrAlreadyRequested):
		common.ErrorResponse(c, 409, "A request for this pet is already pending", err)
	case errors.Is(err, common.ErrAlreadyLinked):
		common.ErrorResponse(c, 409, "This pet is already enrolled in the group", err)
	case err != nil:
		common.ErrorResponse(c, 500, "Failed to create membership request", err)
	default:
		c.JSON(201, common.APIResponse{Data: data})
	}
}

// Decide handles PATCH /api/v1/memberships/:id
func (h *MembershipHandler) Decide(c *gin.Context) {
	caller := middleware.GetAuthUser(c)

	var req domain.DecideMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	data, err := h.service.Decide(caller, c.Param("id"), req.Status)
	switch {
	case errors.Is(err, common.ErrInvalidInput):
		common.ErrorResponse(c, 400, "status must be APPROVED or REJECTED", err)
	case errors.Is(err, common.ErrMembershipNotFound):
		common.ErrorResponse(c, 404, "Membership request not found", err)
	case errors.Is(err, common.ErrForbidden):
		common.ErrorResponse(c, 403, "No permission to decide this request", err)
	case errors.Is(err, common.ErrAlreadyDecided):
		common.ErrorResponse(c, 409, "This request has already been decided", err)
	case errors.Is(err, common.ErrAlreadyLinked):
		common.ErrorResponse(c, 409, "This pet already has an active enrollment", err)
	case err != nil:
		common.ErrorResponse(c, 500, "Failed to decide membership request", err)
	default:
		common.SuccessResponse(c, data, nil)
	}
}

// Delete handles DELETE /api/v1/memberships/:id
func (h *MembershipHandler) Delete(c *gin.Context) {
	caller := middleware.GetAuthUser(c)

	err := h.service.Delete(caller, c.Param("id"))
	switch {
	case errors.Is(err, common.ErrMembershipNotFound):
		common.ErrorResponse(c, 404, "Membership request not found", err)
	case errors.Is(err, common.ErrNotRejected):
		common.ErrorResponse(c, 409, "Only a rejected request can be deleted", err)
	case err != nil:
		common.ErrorResponse(c, 500, "Failed to delete membership request", err)
	default:
		c.Status(204)
	}
}
