// camcheck captures one webcam frame, runs it through the detection
// service, and prints the result. Quick end-to-end probe for a new
// setup: camera permissions, service reachability, model readiness.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Techy2419/Focus-Flow/internal/config"
	"github.com/Techy2419/Focus-Flow/internal/log"
	"github.com/Techy2419/Focus-Flow/pkg/camera"
	"github.com/Techy2419/Focus-Flow/pkg/detect"
)

func main() {
	savePath := flag.String("save", "", "also write the captured frame to this path")
	flag.Parse()

	godotenv.Load()
	log.Init(os.Getenv("LOG_LEVEL"))
	logger := log.L()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, err := detect.NewClient(
		detect.WithBaseURL(config.DetectionURL()),
		detect.WithLogger(logger),
	)
	if err != nil {
		logger.Error("failed to create detection client", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	status, err := client.Status(ctx)
	if err != nil {
		logger.Error("detection service unreachable", "url", config.DetectionURL(), "error", err)
		os.Exit(1)
	}
	logger.Info("detection service", "status", status.Status, "ready", status.Ready)
	if !status.Ready {
		logger.Error("models not loaded yet, try again shortly")
		os.Exit(1)
	}

	camCfg := camera.DefaultConfig()
	camCfg.DeviceIndex = config.CameraIndex()
	cam, err := camera.OpenWebcam(camCfg)
	if err != nil {
		logger.Error("failed to open camera", "device", camCfg.DeviceIndex, "error", err)
		os.Exit(1)
	}
	defer cam.Close()

	frame, err := cam.CaptureJPEG()
	if err != nil {
		logger.Error("failed to capture frame", "error", err)
		os.Exit(1)
	}
	logger.Info("frame captured", "bytes", len(frame))

	if *savePath != "" {
		if err := os.WriteFile(*savePath, frame, 0644); err != nil {
			logger.Warn("failed to save frame", "path", *savePath, "error", err)
		} else {
			logger.Info("frame saved", "path", *savePath)
		}
	}

	result, err := client.Detect(ctx, frame)
	if err != nil {
		logger.Error("detection failed", "error", err)
		os.Exit(1)
	}

	out, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(out))
}
