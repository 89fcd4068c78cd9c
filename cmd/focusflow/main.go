// FocusFlow daemon: camera polling, distraction detection, session
// tracking, and the dashboard API.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Techy2419/Focus-Flow/internal/config"
	"github.com/Techy2419/Focus-Flow/internal/log"
	"github.com/Techy2419/Focus-Flow/internal/store"
	"github.com/Techy2419/Focus-Flow/pkg/camera"
	"github.com/Techy2419/Focus-Flow/pkg/detect"
	"github.com/Techy2419/Focus-Flow/pkg/engine"
	"github.com/Techy2419/Focus-Flow/pkg/intervention"
	"github.com/Techy2419/Focus-Flow/pkg/session"
	"github.com/Techy2419/Focus-Flow/pkg/web"
)

func main() {
	godotenv.Load()
	log.Init(os.Getenv("LOG_LEVEL"))
	logger := log.L()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Persistence
	db, err := store.Open(config.DBPath(), logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Detection service client
	detector, err := detect.NewClient(
		detect.WithBaseURL(config.DetectionURL()),
		detect.WithLogger(logger),
	)
	if err != nil {
		logger.Error("failed to create detection client", "error", err)
		os.Exit(1)
	}
	defer detector.Close()

	// Webcam
	camCfg := camera.DefaultConfig()
	camCfg.DeviceIndex = config.CameraIndex()
	cam, err := camera.OpenWebcam(camCfg)
	if err != nil {
		logger.Error("failed to open camera", "device", camCfg.DeviceIndex, "error", err)
		os.Exit(1)
	}
	defer cam.Close()

	// Coaching messages: generative when a key is present, static otherwise
	var coach engine.Messenger
	if key := config.OpenAIKey(); key != "" {
		coach = intervention.NewCoach(key, intervention.WithCoachLogger(logger))
	} else {
		logger.Warn("OPENAI_API_KEY not set, using static intervention messages")
	}

	sessions := session.New(db, logger)

	eng := engine.New(engine.Config{
		Camera:       cam,
		Detector:     detector,
		Session:      sessions,
		Coach:        coach,
		Logger:       logger,
		PollInterval: config.PollInterval(),
	})

	server := web.NewServer(web.Config{
		Engine:   eng,
		Detector: detector,
		History:  db,
		Logger:   logger,
	})

	// The engine publishes every tick to the dashboard feed
	eng.SetPublisher(server.Events())

	go func() {
		if err := eng.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("engine stopped", "error", err)
			stop()
		}
	}()

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		server.Shutdown()
	}()

	if err := server.Listen(":" + config.WebPort()); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
