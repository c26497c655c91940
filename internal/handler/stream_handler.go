package handler

import (
	"os"

	"cooksession-be/internal/pkg/logger"
	"cooksession-be/internal/service"
	internalWS "cooksession-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// StreamHandler upgrades authenticated clients onto a session's live
// change stream. Every device on the session gets each push; the payload
// is a nudge to refetch, not the full state.
type StreamHandler struct {
	sessionService service.ISessionService
	hub            *internalWS.Hub
	logger         logger.ILogger
}

func NewStreamHandler(sessionService service.ISessionService, hub *internalWS.Hub, log logger.ILogger) *StreamHandler {
	return &StreamHandler{
		sessionService: sessionService,
		hub:            hub,
		logger:         log,
	}
}

// ServeWs handles the websocket handshake for one session stream.
func (h *StreamHandler) ServeWs(c *fiber.Ctx) error {
	// Browsers cannot set headers on websocket handshakes, so the token
	// also rides a query param.
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token (Query 'token' or Header 'Authorization')"})
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		h.logger.Warn("StreamHandler", "Invalid token in WS handshake", map[string]interface{}{"error": err})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}
	householdIDStr, ok := claims["household_id"].(string)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token missing household_id"})
	}
	householdID, err := uuid.Parse(householdIDStr)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid household ID format in token"})
	}

	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session ID"})
	}

	// Ownership check before the upgrade; an attacker must not stream a
	// session from another household.
	if _, err := h.sessionService.Show(c.UserContext(), householdID, sessionID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("StreamHandler", "Session stream opened", map[string]interface{}{"session_id": sessionID})
			internalWS.ServeWs(h.hub, conn, sessionID)
			h.logger.Info("StreamHandler", "Session stream closed", map[string]interface{}{"session_id": sessionID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

// RegisterRoutes mounts the stream endpoint.
func (h *StreamHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/cooking/v1/sessions/:id/ws", h.ServeWs)
}
