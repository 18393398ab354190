package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsConn serializes writes to one websocket.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
	log  *zap.Logger
}

func (c *wsConn) Notify(msg ServerMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(msg); err != nil {
		c.log.Debug("ws write", zap.String("type", msg.Type), zap.Error(err))
	}
}

func (s *Server) handleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("ws upgrade", zap.Error(err))
		return
	}
	defer conn.Close()

	id := uuid.NewString()
	out := &wsConn{conn: conn, log: s.log.With(zap.String("conn", id))}
	session := newSession(id, out, s.reg, s.log)
	defer session.close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			session.sendError("", errBadJSON)
			continue
		}
		session.handleMessage(msg)
	}
}
