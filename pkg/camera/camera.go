// Package camera captures webcam frames as JPEG for the detection loop.
package camera

import (
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

var ErrClosed = errors.New("camera: source closed")

// Source supplies one JPEG frame per call. Implementations are safe for
// use from a single polling goroutine.
type Source interface {
	CaptureJPEG() ([]byte, error)
	Close() error
}

// Config holds capture settings.
type Config struct {
	DeviceIndex int `json:"device_index"`
	Width       int `json:"width"`
	Height      int `json:"height"`
	Quality     int `json:"quality"` // JPEG quality 1-100
}

// DefaultConfig returns the settings tuned for the detection service:
// 640x480 keeps inference latency under the polling interval.
func DefaultConfig() Config {
	return Config{
		DeviceIndex: 0,
		Width:       640,
		Height:      480,
		Quality:     80,
	}
}

// Webcam is a Source backed by a local video device.
type Webcam struct {
	mu     sync.Mutex
	cap    *gocv.VideoCapture
	config Config
	closed bool
}

// OpenWebcam opens the device and applies the capture settings.
func OpenWebcam(cfg Config) (*Webcam, error) {
	cap, err := gocv.OpenVideoCapture(cfg.DeviceIndex)
	if err != nil {
		return nil, fmt.Errorf("camera: open device %d: %w", cfg.DeviceIndex, err)
	}

	cap.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	cap.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))

	return &Webcam{cap: cap, config: cfg}, nil
}

// CaptureJPEG grabs one frame and encodes it.
func (w *Webcam) CaptureJPEG() ([]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, ErrClosed
	}

	img := gocv.NewMat()
	defer img.Close()

	if ok := w.cap.Read(&img); !ok || img.Empty() {
		return nil, fmt.Errorf("camera: device %d returned no frame", w.config.DeviceIndex)
	}

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, img,
		[]int{gocv.IMWriteJpegQuality, w.config.Quality})
	if err != nil {
		return nil, fmt.Errorf("camera: encode frame: %w", err)
	}
	defer buf.Close()

	// Copy out; the buffer is backed by OpenCV memory
	jpeg := make([]byte, buf.Len())
	copy(jpeg, buf.GetBytes())
	return jpeg, nil
}

// Close releases the device.
func (w *Webcam) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	return w.cap.Close()
}

var _ Source = (*Webcam)(nil)
