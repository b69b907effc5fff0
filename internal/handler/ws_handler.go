package handler

import (
	"errors"
	"net/http"

	"github.com/danbi-app/danbi-backend/internal/common"
	"github.com/danbi-app/danbi-backend/internal/middleware"
	"github.com/danbi-app/danbi-backend/internal/service"
	"github.com/danbi-app/danbi-backend/internal/ws"
	"github.com/danbi-app/danbi-backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS is enforced at the HTTP layer
	},
}

type WSHandler struct {
	hub     *ws.Hub
	reports service.ReportService
}

func NewWSHandler(hub *ws.Hub, reports service.ReportService) *WSHandler {
	return &WSHandler{hub: hub, reports: reports}
}

// HandleReportEvents handles GET /api/v1/reports/:id/events (WebSocket).
// The viewer must be able to read the report; after the upgrade every
// comment change on the report is streamed as an invalidation event.
func (h *WSHandler) HandleReportEvents(c *gin.Context) {
	caller := middleware.GetAuthUser(c)
	reportID := c.Param("id")

	if _, err := h.reports.Get(caller, reportID); err != nil {
		switch {
		case errors.Is(err, common.ErrReportNotFound):
			common.ErrorResponse(c, 404, "Report not found", err)
		case errors.Is(err, common.ErrForbidden):
			common.ErrorResponse(c, 403, "No permission to view this report", err)
		default:
			common.ErrorResponse(c, 500, "Failed to open event stream", err)
		}
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.GetLogger().Warn().Err(err).Msg("ws: upgrade failed")
		return
	}

	client := ws.NewClient(h.hub, conn, reportID, caller.UserID)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
