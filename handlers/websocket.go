package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"promptgallery/auth"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// AuthEvents streams the identity state of the caller: one {user, loading} message
// right away and one after every change of the session
func (h *Handlers) AuthEvents(c *gin.Context) {
	token := auth.RequestToken(c)
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Print("upgrade:", err)
		return
	}
	defer conn.Close()

	// Setup client
	var writeMutex sync.Mutex
	send := func(data []byte) bool {
		writeMutex.Lock()
		defer writeMutex.Unlock()
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Println("write err:", err)
			return false
		}
		return true
	}
	adapter := auth.NewAdapter(h.Provider, h.Service.Store)
	defer adapter.Close()
	cancel := adapter.Watch(func(snapshot auth.Snapshot) {
		data, err := json.Marshal(snapshot)
		if err != nil {
			log.Printf("Cannot encode snapshot: %v", err)
			return
		}
		send(data)
	})
	defer cancel()
	if err = adapter.Start(c.Request.Context(), token); err != nil {
		log.Printf("Cannot load session: %v", err)
	}

	// Main read cycle
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Println("read err:", err)
			}
			break
		}
		switch string(message) {
		case "ping":
			send([]byte("pong"))
		case "signout":
			if err = adapter.SignOut(context.WithoutCancel(c.Request.Context())); err != nil {
				log.Printf("Sign out failed: %v", err)
			}
		}
	}
}
