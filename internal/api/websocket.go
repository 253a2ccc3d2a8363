package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

type wsIncoming struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
}

type wsOutgoing struct {
	Type       string `json:"type"`
	Content    string `json:"content,omitempty"`
	SessionID  string `json:"session_id,omitempty"`
	DurationMs int64  `json:"duration_ms,omitempty"`
	Error      string `json:"error,omitempty"`
}

// ChatWebSocket holds an interactive conversation with an agent over a
// websocket. Each incoming frame is one message; the response is streamed
// back as chunk frames followed by a complete frame.
func (s *Server) ChatWebSocket(c *gin.Context) {
	agentID := c.Param("id")
	agent, err := s.factory.LoadDynamicAgent(c.Request.Context(), agentID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Agent not found"})
		return
	}
	s.metrics.RecordAgentLoad()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	s.metrics.StreamOpened()
	defer s.metrics.StreamClosed()

	conn.SetReadLimit(512 * 1024)
	conn.SetReadDeadline(time.Now().Add(10 * time.Minute))

	// Writes come from both the streaming callback and the control frames.
	var writeMu sync.Mutex
	writeJSON := func(v wsOutgoing) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(v)
	}

	for {
		var incoming wsIncoming
		if err := conn.ReadJSON(&incoming); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read failed", zap.Error(err))
			}
			return
		}
		if incoming.Message == "" {
			_ = writeJSON(wsOutgoing{Type: "error", Error: "message is required"})
			continue
		}
		conn.SetReadDeadline(time.Now().Add(10 * time.Minute))

		session, err := s.resolveSession(agentID, incoming.SessionID, incoming.UserID)
		if err != nil {
			_ = writeJSON(wsOutgoing{Type: "error", Error: err.Error()})
			continue
		}

		history, err := s.sessionHistory(session.ID)
		if err != nil {
			_ = writeJSON(wsOutgoing{Type: "error", Error: err.Error()})
			continue
		}

		result, err := agent.RunStream(c.Request.Context(), incoming.Message, history, func(chunk string) {
			_ = writeJSON(wsOutgoing{Type: "chunk", Content: chunk, SessionID: session.ID})
		})
		s.recordRun(agentID, session.ID, incoming.Message, result, err)
		if err != nil {
			_ = writeJSON(wsOutgoing{Type: "error", Error: err.Error(), SessionID: session.ID})
			continue
		}

		if err := writeJSON(wsOutgoing{
			Type:       "complete",
			Content:    result.Output,
			SessionID:  session.ID,
			DurationMs: result.DurationMs,
		}); err != nil {
			return
		}
	}
}
