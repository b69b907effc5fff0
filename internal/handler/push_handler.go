package handler

import (
	"github.com/danbi-app/danbi-backend/internal/common"
	"github.com/danbi-app/danbi-backend/internal/domain"
	"github.com/danbi-app/danbi-backend/internal/middleware"
	"github.com/danbi-app/danbi-backend/internal/push"
	"github.com/danbi-app/danbi-backend/internal/repository"
	"github.com/gin-gonic/gin"
)

type PushHandler struct {
	repo repository.PushSubscriptionRepository
}

func NewPushHandler(repo repository.PushSubscriptionRepository) *PushHandler {
	return &PushHandler{repo: repo}
}

// Subscribe handles POST /api/v1/push/subscribe
func (h *PushHandler) Subscribe(c *gin.Context) {
	caller := middleware.GetAuthUser(c)

	var req domain.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}
	if req.Endpoint == "" || req.Keys.P256dh == "" || req.Keys.Auth == "" {
		common.ErrorResponse(c, 400, "endpoint and keys are required", nil)
		return
	}

	if err := push.Subscribe(h.repo, caller.UserID, &req); err != nil {
		common.ErrorResponse(c, 500, "Failed to store subscription", err)
		return
	}
	c.JSON(201, common.APIResponse{Data: gin.H{"success": true}})
}

// Unsubscribe handles POST /api/v1/push/unsubscribe
func (h *PushHandler) Unsubscribe(c *gin.Context) {
	caller := middleware.GetAuthUser(c)

	var req struct {
		Endpoint string `json:"endpoint"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Endpoint == "" {
		common.ErrorResponse(c, 400, "endpoint is required", err)
		return
	}

	if err := h.repo.DeleteByUserEndpoint(caller.UserID, req.Endpoint); err != nil {
		common.ErrorResponse(c, 500, "Failed to remove subscription", err)
		return
	}
	common.SuccessResponse(c, gin.H{"success": true}, nil)
}
