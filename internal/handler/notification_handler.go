package handler

import (
	"user-directory-be/internal/pkg/logger"
	"user-directory-be/internal/pkg/serverutils"
	"user-directory-be/internal/service"
	internalWS "user-directory-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type NotificationHandler struct {
	service *service.NotificationService
	hub     *internalWS.Hub
	logger  logger.ILogger
}

func NewNotificationHandler(service *service.NotificationService, hub *internalWS.Hub, log logger.ILogger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		hub:     hub,
		logger:  log,
	}
}

// ServeWs upgrades to the live notification feed. The optional session
// (query "session" or header X-Form-Session) selects which targeted toasts
// the connection receives; broadcasts always arrive.
func (h *NotificationHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	sessionID := sessionOf(c)
	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("NotificationHandler", "Starting WebSocket session", map[string]interface{}{"session_id": sessionID})
		internalWS.ServeWs(h.hub, conn, sessionID)
		h.logger.Info("NotificationHandler", "WebSocket session ended", map[string]interface{}{"session_id": sessionID})
	})(c)
}

// GetNotifications returns unexpired notifications for the caller's session.
func (h *NotificationHandler) GetNotifications(c *fiber.Ctx) error {
	return c.JSON(serverutils.SuccessResponse("Notifications", h.service.Recent(sessionOf(c))))
}

func (h *NotificationHandler) RegisterRoutes(router fiber.Router) {
	notif := router.Group("/notifications")
	notif.Get("/", h.GetNotifications)
	notif.Get("/ws", h.ServeWs)
}

func sessionOf(c *fiber.Ctx) string {
	if sid := c.Query("session"); sid != "" {
		return sid
	}
	return c.Get(serverutils.SessionHeader)
}
