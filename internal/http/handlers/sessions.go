package handlers

import (
	"net/http"

	"github.com/saurabhg90055-exp/ProCoach-AI-sub001/internal/core/session"
	"github.com/saurabhg90055-exp/ProCoach-AI-sub001/pkg/types"

	"github.com/gin-gonic/gin"
)

type SessionsHandler struct {
	Svc    *session.Service
	Scheme string
	Host   string
}

func NewSessionsHandler(svc *session.Service, scheme, host string) *SessionsHandler {
	return &SessionsHandler{Svc: svc, Scheme: scheme, Host: host}
}

func (h *SessionsHandler) Create(c *gin.Context) {
	var req types.CreateSessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	sess, err := h.Svc.Create(req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session_create_failed"})
		return
	}
	wsScheme := "ws"
	if h.Scheme == "https" {
		wsScheme = "wss"
	}
	c.JSON(http.StatusOK, types.CreateSessionResp{
		SessionID: sess.ID,
		WSURL:     wsScheme + "://" + h.Host + "/v1/stream?sess=" + sess.ID,
		Degraded:  h.Svc.Degraded(),
	})
}

func (h *SessionsHandler) Summary(c *gin.Context) {
	id := c.Param("id")
	sum, ok := h.Svc.Summary(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (h *SessionsHandler) Delete(c *gin.Context) {
	if !h.Svc.Close(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		return
	}
	c.Status(http.StatusNoContent)
}
