package handlers

import (
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"artists/models"
	"artists/notifications"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// NotificationsSocket subscribes the connection to the broadcast of domain
// notifications. The read side only serves keepalive pings.
func NotificationsSocket(c *gin.Context, user *models.User) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Print("upgrade:", err)
		return
	}
	defer conn.Close()

	// Broadcasts arrive on the publisher's goroutine while pongs are written
	// from the read loop; the connection allows one writer at a time.
	var writeMu sync.Mutex
	isConnected := true
	id := strconv.FormatUint(user.ID, 10)
	client := notifications.AddClient(id, func(data []byte) bool {
		writeMu.Lock()
		defer writeMu.Unlock()
		if !isConnected {
			return false
		}
		err := conn.WriteMessage(websocket.TextMessage, data)
		if err != nil {
			log.Println("write err:", err)
			isConnected = false
			return false
		}
		return true
	})
	defer notifications.RemoveClient(id, client)

	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			writeMu.Lock()
			isConnected = false
			writeMu.Unlock()
			break
		}
		if string(message) == "ping" {
			writeMu.Lock()
			conn.WriteMessage(mt, []byte("pong"))
			writeMu.Unlock()
		}
	}
}
