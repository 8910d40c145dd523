package handler

import (
	"finverse-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
)

type INotificationHandler interface {
	RegisterRoutes(r fiber.Router)
}

type notificationHandler struct {
	hub *websocket.Hub
}

func NewNotificationHandler(hub *websocket.Hub) INotificationHandler {
	return &notificationHandler{
		hub: hub,
	}
}

func (h *notificationHandler) RegisterRoutes(r fiber.Router) {
	g := r.Group("/notification/v1")
	g.Use("/ws", func(c *fiber.Ctx) error {
		if fiberws.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	g.Get("/ws", fiberws.New(func(conn *fiberws.Conn) {
		surfaceId := conn.Query("surface_id")
		if surfaceId == "" {
			conn.Close()
			return
		}
		websocket.ServeWs(h.hub, conn, surfaceId)
	}))
}
