package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agentforge/internal/runtime"
	"agentforge/internal/store"
)

// ListAgents lists agents, optionally filtered by ?status= and
// ?specialization=, paginated with ?limit= and ?offset=.
func (s *Server) ListAgents(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	agents, err := s.store.ListAgents(store.AgentFilter{
		Status:         c.Query("status"),
		Specialization: c.Query("specialization"),
		Limit:          limit,
		Offset:         offset,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]gin.H, 0, len(agents))
	for _, a := range agents {
		out = append(out, agentSummary(&a))
	}
	c.JSON(http.StatusOK, gin.H{"agents": out, "total": len(out)})
}

// GetAgent returns one agent with its full specification.
func (s *Server) GetAgent(c *gin.Context) {
	agent, err := s.store.GetAgent(c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrAgentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Agent not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	specification, err := agent.Specification()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"agent":         agentSummary(agent),
		"specification": specification,
	})
}

type updateAgentRequest struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	SystemMessage *string `json:"system_message"`
}

// UpdateAgent applies a partial update to an agent's mutable fields.
func (s *Server) UpdateAgent(c *gin.Context) {
	var req updateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	agent, err := s.store.UpdateAgent(c.Param("id"), store.AgentUpdate{
		Name:          req.Name,
		Description:   req.Description,
		SystemMessage: req.SystemMessage,
	})
	if err != nil {
		if errors.Is(err, store.ErrAgentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Agent not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"agent": agentSummary(agent)})
}

// DeleteAgent soft-deletes an agent. The row and its sessions stay in the
// database but the agent can no longer be loaded or chatted with.
func (s *Server) DeleteAgent(c *gin.Context) {
	if err := s.store.DeleteAgent(c.Param("id")); err != nil {
		if errors.Is(err, store.ErrAgentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Agent not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted", "agent_id": c.Param("id")})
}

type chatRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Stream    bool   `json:"stream"`
}

// Chat runs one exchange with an agent. When stream is set the response is
// delivered as server-sent events.
func (s *Server) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	agentID := c.Param("id")
	agent, err := s.factory.LoadDynamicAgent(c.Request.Context(), agentID)
	if err != nil {
		if errors.Is(err, store.ErrAgentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Agent not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.metrics.RecordAgentLoad()

	session, err := s.resolveSession(agentID, req.SessionID, req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	history, err := s.sessionHistory(session.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if req.Stream {
		s.streamChat(c, agent, session, req.Message, history)
		return
	}

	result, err := agent.Run(c.Request.Context(), req.Message, history)
	s.recordRun(agentID, session.ID, req.Message, result, err)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "session_id": session.ID})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"response":    result.Output,
		"session_id":  session.ID,
		"agent_id":    agentID,
		"duration_ms": result.DurationMs,
		"tokens_used": result.TokensUsed,
	})
}

func (s *Server) streamChat(c *gin.Context, agent *runtime.Agent, session *store.Session, message string, history []runtime.Exchange) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	s.metrics.StreamOpened()
	defer s.metrics.StreamClosed()

	flusher, canFlush := c.Writer.(http.Flusher)
	result, err := agent.RunStream(c.Request.Context(), message, history, func(chunk string) {
		fmt.Fprintf(c.Writer, "data: %s\n\n", chunk)
		if canFlush {
			flusher.Flush()
		}
	})
	s.recordRun(agent.ID(), session.ID, message, result, err)
	if err != nil {
		fmt.Fprintf(c.Writer, "data: [ERROR] %s\n\n", err.Error())
	}
	fmt.Fprint(c.Writer, "data: [DONE]\n\n")
	if canFlush {
		flusher.Flush()
	}
}

// ListSessions lists the conversations held with an agent.
func (s *Server) ListSessions(c *gin.Context) {
	sessions, err := s.store.ListSessions(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions, "total": len(sessions)})
}

// GetSession returns a session with its full run transcript.
func (s *Server) GetSession(c *gin.Context) {
	session, err := s.store.GetSession(c.Param("session_id"))
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	runs, err := s.store.SessionRuns(session.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session, "runs": runs})
}

// DeleteSession removes a session and its runs.
func (s *Server) DeleteSession(c *gin.Context) {
	if err := s.store.DeleteSession(c.Param("session_id")); err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// GetPerformance reports an agent's aggregate usage figures.
func (s *Server) GetPerformance(c *gin.Context) {
	agent, err := s.store.GetAgent(c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrAgentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Agent not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	sessions, err := s.store.ListSessions(agent.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	totalMessages := 0
	for _, sess := range sessions {
		totalMessages += sess.TotalMessages
	}

	c.JSON(http.StatusOK, gin.H{
		"agent_id":             agent.ID,
		"total_sessions":       agent.TotalSessions,
		"total_messages":       totalMessages,
		"session_count":        len(sessions),
		"avg_response_time_ms": agent.AvgResponseTimeMs,
		"success_rate":         agent.SuccessRate,
		"last_used_at":         agent.LastUsedAt,
		"created_at":           agent.CreatedAt,
	})
}

func (s *Server) resolveSession(agentID, sessionID, userID string) (*store.Session, error) {
	if sessionID == "" {
		return s.store.CreateSession(agentID, userID)
	}
	session, err := s.store.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if session.AgentID != agentID {
		return nil, fmt.Errorf("session %s does not belong to agent %s", sessionID, agentID)
	}
	return session, nil
}

func (s *Server) sessionHistory(sessionID string) ([]runtime.Exchange, error) {
	runs, err := s.store.RecentRuns(sessionID, 3)
	if err != nil {
		return nil, err
	}
	history := make([]runtime.Exchange, 0, len(runs))
	for _, r := range runs {
		history = append(history, runtime.Exchange{Input: r.InputMessage, Output: r.ResponseText})
	}
	return history, nil
}

func (s *Server) recordRun(agentID, sessionID, message string, result *runtime.RunResult, runErr error) {
	run := &store.Run{SessionID: sessionID, InputMessage: message}
	status := "completed"
	if runErr != nil {
		status = "error"
		run.ErrorMessage = runErr.Error()
	} else {
		now := time.Now()
		run.ResponseText = result.Output
		run.DurationMs = result.DurationMs
		run.TokensUsed = result.TokensUsed
		run.CompletedAt = &now
	}
	run.Status = status

	var seconds float64
	if result != nil {
		seconds = float64(result.DurationMs) / 1000.0
	}
	s.metrics.RecordRun(agentID, status, seconds)
	s.monitor.RecordAgentActivity(agentID, "run", map[string]interface{}{
		"status":     status,
		"session_id": sessionID,
	})

	if err := s.store.AppendRun(run); err != nil {
		s.logger.Warn("failed to persist run",
			zap.String("session_id", sessionID),
			zap.Error(err))
	}
}

func agentSummary(a *store.Agent) gin.H {
	return gin.H{
		"id":             a.ID,
		"name":           a.Name,
		"slug":           a.Slug,
		"description":    a.Description,
		"status":         a.Status,
		"total_sessions": a.TotalSessions,
		"created_at":     a.CreatedAt,
		"last_used_at":   a.LastUsedAt,
	}
}
