package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radiolab/OpenRadioCore/internal/pmt"
	"github.com/radiolab/OpenRadioCore/internal/sdr"
	"github.com/radiolab/OpenRadioCore/internal/session"
	"github.com/radiolab/OpenRadioCore/internal/types"
)

// GET /api/v1/sessions
func (s *Server) listSessions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sessions": s.lm.Sessions().List()})
}

// GET /api/v1/sessions/:id
func (s *Server) getSession(c *gin.Context) {
	sess, ok := s.resolveSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.Snapshot())
}

// POST /api/v1/sessions/:id/command
// The body is either a typed value envelope or a bare settings object like
// {"freq": 100e6, "gain": 30}.
func (s *Server) sessionCommand(c *gin.Context) {
	sess, ok := s.resolveSession(c)
	if !ok {
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<16))
	if err != nil || len(body) == 0 {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.CodeSessionBadRequest, "Missing request body", nil))
		return
	}

	value, err := commandValue(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.CodeSessionBadRequest, "Invalid command", err.Error()))
		return
	}

	reply, err := sess.HandleCommand(c.Request.Context(), value)
	if err != nil {
		var convErr *pmt.ConversionError
		if errors.As(err, &convErr) {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.CodeSessionBadRequest, "Command not convertible to settings", err.Error()))
			return
		}
		var callErr *sdr.CallError
		if errors.As(err, &callErr) {
			c.JSON(http.StatusBadGateway, types.NewErrorResponse(types.CodeSessionBadGateway, "Device rejected setting", err.Error()))
			return
		}
		s.logger.Error("Command failed",
			zap.String("session", sess.Name),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.CodeSessionInternal, "Command failed", err.Error()))
		return
	}

	replyJSON, err := pmt.Marshal(reply)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.CodeSessionInternal, "Failed to encode reply", err.Error()))
		return
	}
	c.Data(http.StatusOK, "application/json", replyJSON)
}

// GET /api/v1/sessions/:id/history?limit=50
func (s *Server) sessionHistory(c *gin.Context) {
	sess, ok := s.resolveSession(c)
	if !ok {
		return
	}

	store := s.lm.Storage()
	if store == nil {
		c.JSON(http.StatusServiceUnavailable, types.NewErrorResponse(types.CodeSessionNoBackend, "Command history requires the database", nil))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	entries, err := store.ListCommandHistory(c.Request.Context(), sess.ID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.CodeSessionInternal, "Failed to load history", err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": entries})
}

// GET /api/v1/sessions/:id/time
func (s *Server) sessionHardwareTime(c *gin.Context) {
	sess, ok := s.resolveSession(c)
	if !ok {
		return
	}

	ns, err := sess.HardwareTime(c.Request.Context())
	if err != nil {
		if errors.Is(err, sdr.ErrDeviceAbsent) {
			c.JSON(http.StatusServiceUnavailable, types.NewErrorResponse(types.CodeSessionNoBackend, "No device attached", nil))
			return
		}
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.CodeSessionInternal, "Failed to read hardware time", err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{"hardware_time_ns": ns})
}

// resolveSession looks a session up by UUID or by configured name. It writes
// the 404 itself so handlers can early-return.
func (s *Server) resolveSession(c *gin.Context) (*session.Session, bool) {
	ref := c.Param("id")

	manager := s.lm.Sessions()
	if id, err := uuid.Parse(ref); err == nil {
		if sess, ok := manager.Get(id); ok {
			return sess, true
		}
	} else if sess, ok := manager.GetByName(ref); ok {
		return sess, true
	}

	c.JSON(http.StatusNotFound, types.NewErrorResponse(types.CodeSessionNotFound, "Session not found", ref))
	return nil, false
}

// commandValue decodes a request body into a dynamic value. Envelopes with a
// "type" field take the typed path; anything else is treated as a bare
// settings object.
func commandValue(body []byte) (pmt.Value, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, fmt.Errorf("body is not a JSON object: %w", err)
	}

	if _, hasType := probe["type"]; hasType {
		return pmt.Unmarshal(body)
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}

	m := make(pmt.Map, len(raw))
	for key, val := range raw {
		switch v := val.(type) {
		case string:
			m[key] = pmt.String(v)
		case float64:
			m[key] = pmt.F64(v)
		default:
			return nil, fmt.Errorf("setting %q has unsupported type %T", key, val)
		}
	}
	return m, nil
}
