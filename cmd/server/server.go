package main

import (
	"log"

	"github.com/saurabhg90055-exp/ProCoach-AI-sub001/internal/config"
	h "github.com/saurabhg90055-exp/ProCoach-AI-sub001/internal/http"

	"github.com/joho/godotenv"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if cfg.LogFile != "" {
		log.SetOutput(&lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    50, // MB
			MaxBackups: 3,
			MaxAge:     14, // days
		})
	}
	r := h.NewRouter(cfg)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
