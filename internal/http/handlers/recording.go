package handlers

import (
	"errors"
	"net/http"

	"github.com/saurabhg90055-exp/ProCoach-AI-sub001/internal/core/session"
	"github.com/saurabhg90055-exp/ProCoach-AI-sub001/internal/telemetry/recording"
	"github.com/saurabhg90055-exp/ProCoach-AI-sub001/pkg/types"

	"github.com/gin-gonic/gin"
)

type RecordingHandler struct {
	Svc *session.Service
}

func NewRecordingHandler(svc *session.Service) *RecordingHandler {
	return &RecordingHandler{Svc: svc}
}

func (h *RecordingHandler) Start(c *gin.Context) {
	var req types.StartRecordingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	err := h.Svc.StartRecording(c.Param("id"), req.Mode)
	switch {
	case errors.Is(err, recording.ErrUnsupportedCodec):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "unsupported_codec"})
	case errors.Is(err, recording.ErrRecordingStart):
		c.JSON(http.StatusConflict, gin.H{"error": "recording_start_failed"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "recording_start_failed"})
	default:
		c.JSON(http.StatusOK, h.status(c.Param("id")))
	}
}

func (h *RecordingHandler) Pause(c *gin.Context) {
	h.withSession(c, func(s *session.Session) {
		s.Manager.Pause()
		c.JSON(http.StatusOK, h.status(s.ID))
	})
}

func (h *RecordingHandler) Resume(c *gin.Context) {
	h.withSession(c, func(s *session.Session) {
		s.Manager.Resume()
		c.JSON(http.StatusOK, h.status(s.ID))
	})
}

func (h *RecordingHandler) Stop(c *gin.Context) {
	h.withSession(c, func(s *session.Session) {
		if _, err := s.Manager.Stop(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "recording_stop_failed"})
			return
		}
		c.JSON(http.StatusOK, h.status(s.ID))
	})
}

func (h *RecordingHandler) Clear(c *gin.Context) {
	h.withSession(c, func(s *session.Session) {
		s.Manager.Clear()
		c.JSON(http.StatusOK, h.status(s.ID))
	})
}

// Artifact streams the finished recording back to the client.
func (h *RecordingHandler) Artifact(c *gin.Context) {
	h.withSession(c, func(s *session.Session) {
		art, ok := s.Manager.CurrentArtifact()
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "no_artifact"})
			return
		}
		c.Header("X-Artifact-Locator", art.Locator)
		c.Data(http.StatusOK, art.Codec, art.Data)
	})
}

func (h *RecordingHandler) withSession(c *gin.Context, fn func(*session.Session)) {
	sess, ok := h.Svc.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		return
	}
	fn(sess)
}

func (h *RecordingHandler) status(id string) types.RecordingStatus {
	sum, _ := h.Svc.Summary(id)
	return sum.Recording
}
