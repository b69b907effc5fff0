package handler

import (
	"github.com/danbi-app/danbi-backend/internal/common"
	"github.com/danbi-app/danbi-backend/internal/middleware"
	"github.com/danbi-app/danbi-backend/internal/repository"
	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	repo repository.ProfileRepository
}

func NewProfileHandler(repo repository.ProfileRepository) *ProfileHandler {
	return &ProfileHandler{repo: repo}
}

// Me handles GET /api/v1/me
func (h *ProfileHandler) Me(c *gin.Context) {
	caller := middleware.GetAuthUser(c)

	profile, err := h.repo.FindByUserID(caller.UserID)
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to fetch profile", err)
		return
	}
	if profile == nil {
		common.ErrorResponse(c, 404, "Profile not found", nil)
		return
	}
	common.SuccessResponse(c, profile, nil)
}
