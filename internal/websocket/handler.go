package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs attaches one upgraded connection to the hub for a chat surface.
func ServeWs(hub *Hub, c *websocket.Conn, surfaceID string) {
	client := &Client{Hub: hub, Conn: c, SurfaceID: surfaceID, Send: make(chan []byte, 256)}
	client.Hub.register <- client

	go client.writePump()
	client.readPump()
}
