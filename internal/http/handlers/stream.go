package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/saurabhg90055-exp/ProCoach-AI-sub001/internal/core/session"
	"github.com/saurabhg90055-exp/ProCoach-AI-sub001/pkg/types"
	"github.com/saurabhg90055-exp/ProCoach-AI-sub001/pkg/ws"
)

type StreamHandler struct {
	Hub      *ws.Hub
	Svc      *session.Service
	Upgrader websocket.Upgrader
}

func NewStreamHandler(h *ws.Hub, s *session.Service) *StreamHandler {
	return &StreamHandler{
		Hub: h,
		Svc: s,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// WS is the telemetry stream: the client ships camera frames, connectivity
// metadata, and recorder chunks up; smoothed readings come back down via
// the hub callbacks wired at session creation.
func (h *StreamHandler) WS(c *gin.Context) {
	id := c.Query("sess")
	if id == "" {
		c.Status(http.StatusBadRequest)
		return
	}
	sess, ok := h.Svc.Get(id)
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}
	// One telemetry stream per session.
	if _, live := h.Hub.Get(id); live {
		c.JSON(http.StatusConflict, gin.H{"error": "stream_already_connected"})
		return
	}
	conn, err := h.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	h.Hub.Add(id, conn)
	defer func() {
		// The video source disappears with the connection, unless a newer
		// connection has already taken over the session.
		if h.Hub.Remove(id, conn) {
			sess.Feed.SetReady(false)
		}
		conn.Close()
	}()

	conn.SetReadLimit(8 << 20)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	_ = h.Hub.Send(id, gin.H{
		"type": "hello",
		"ts":   time.Now().UnixMilli(),
	})

	for {
		mt, msg, err := conn.ReadMessage()
		if err != nil {
			// A dropped transport mid-recording is a recorder runtime
			// failure; the manager keeps what was captured.
			sess.Recorder.Fail(err)
			return
		}
		switch mt {
		case websocket.BinaryMessage:
			sess.Recorder.Ingest(msg)
		case websocket.TextMessage:
			h.handleText(sess, msg)
		}
	}
}

func (h *StreamHandler) handleText(sess *session.Session, msg []byte) {
	var kind struct {
		Type string `json:"type"`
	}
	if json.Unmarshal(msg, &kind) != nil {
		return
	}
	switch kind.Type {
	case "frame":
		var fm types.FrameMsg
		if json.Unmarshal(msg, &fm) != nil {
			return
		}
		data, err := base64.StdEncoding.DecodeString(fm.Data)
		if err != nil || len(data) == 0 {
			return
		}
		mime := fm.MIME
		if mime == "" {
			mime = "image/jpeg"
		}
		sess.Feed.SetFrame(data, mime)
	case "netinfo":
		var nm types.NetInfoMsg
		if json.Unmarshal(msg, &nm) != nil {
			return
		}
		sess.Feed.SetNetInfo(nm.Online, nm.EffectiveType, nm.DownlinkMbps)
	}
}
