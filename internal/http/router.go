package http

import (
	"log"
	"os"

	"github.com/saurabhg90055-exp/ProCoach-AI-sub001/internal/config"
	"github.com/saurabhg90055-exp/ProCoach-AI-sub001/internal/core/session"
	"github.com/saurabhg90055-exp/ProCoach-AI-sub001/internal/http/handlers"
	"github.com/saurabhg90055-exp/ProCoach-AI-sub001/internal/repo/memory"
	"github.com/saurabhg90055-exp/ProCoach-AI-sub001/internal/telemetry/expression"
	"github.com/saurabhg90055-exp/ProCoach-AI-sub001/internal/telemetry/expression/geminidet"
	"github.com/saurabhg90055-exp/ProCoach-AI-sub001/pkg/ws"

	"github.com/gin-gonic/gin"
)

func NewRouter(cfg config.Config) *gin.Engine {
	r := gin.Default()

	// A missing detector is non-fatal: sessions run the fallback
	// synthesizer and report degraded mode.
	var detector expression.Detector
	if det, err := geminidet.New(cfg.GeminiAPIKey, cfg.GeminiModel); err != nil {
		log.Printf("detector unavailable, running degraded: %v", err)
	} else {
		detector = det
	}

	repo := memory.NewSessionRepo[*session.Session]()
	hub := ws.NewHub()
	svc := session.NewService(repo, hub, session.Options{
		Detector:           detector,
		ProbeURL:           cfg.ProbeURL,
		ExpressionInterval: cfg.ExpressionInterval,
		ProbeInterval:      cfg.ProbeInterval,
	})

	baseScheme := "http"
	if os.Getenv("TLS") == "1" {
		baseScheme = "https"
	}
	host := os.Getenv("PUBLIC_HOST")
	if host == "" {
		host = "localhost:" + cfg.Port
	}

	sh := handlers.NewSessionsHandler(svc, baseScheme, host)
	rh := handlers.NewRecordingHandler(svc)
	wsh := handlers.NewStreamHandler(hub, svc)

	api := r.Group("/v1")
	api.POST("/sessions", sh.Create)
	api.GET("/sessions/:id/summary", sh.Summary)
	api.DELETE("/sessions/:id", sh.Delete)
	api.POST("/sessions/:id/recording/start", rh.Start)
	api.POST("/sessions/:id/recording/pause", rh.Pause)
	api.POST("/sessions/:id/recording/resume", rh.Resume)
	api.POST("/sessions/:id/recording/stop", rh.Stop)
	api.POST("/sessions/:id/recording/clear", rh.Clear)
	api.GET("/sessions/:id/recording/artifact", rh.Artifact)
	r.GET("/v1/stream", wsh.WS)
	return r
}
