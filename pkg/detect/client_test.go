package detect

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

var testFrame = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10} // JPEG magic prefix

func TestClientDetect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/detect" {
			t.Errorf("Expected /detect, got %s", r.URL.Path)
		}
		if r.Method != "POST" {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			t.Errorf("Expected multipart upload, got %s", r.Header.Get("Content-Type"))
		}

		file, _, err := r.FormFile("file")
		if err != nil {
			t.Errorf("Expected file field: %v", err)
		} else {
			file.Close()
		}

		result := Result{
			PhoneDetected: true,
			PhoneBoxes: []BoundingBox{
				{XMin: 100, YMin: 50, Width: 40, Height: 80, Confidence: 0.82},
			},
			PoseDetected: true,
			FaceDetected: true,
			Keypoints: []Keypoint{
				{X: 320, Y: 120, Visibility: 0.95, Name: KeypointNose},
			},
			ProcessingTimeMs: 42.5,
			Backend:          "mediapipe-cpu",
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}))
	defer server.Close()

	client, err := NewClient(WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	defer client.Close()

	result, err := client.Detect(context.Background(), testFrame)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}

	if !result.PhoneDetected {
		t.Error("Expected phone_detected")
	}
	if len(result.PhoneBoxes) != 1 {
		t.Fatalf("Expected 1 phone box, got %d", len(result.PhoneBoxes))
	}
	if result.PhoneBoxes[0].Confidence != 0.82 {
		t.Errorf("Unexpected confidence: %v", result.PhoneBoxes[0].Confidence)
	}
	if kp := result.Keypoint(KeypointNose); kp == nil || kp.X != 320 {
		t.Errorf("Expected nose keypoint at x=320, got %+v", kp)
	}
	if result.Backend != "mediapipe-cpu" {
		t.Errorf("Unexpected backend: %s", result.Backend)
	}
}

func TestClientDetectEmptyFrame(t *testing.T) {
	client, _ := NewClient()
	defer client.Close()

	_, err := client.Detect(context.Background(), nil)
	if !errors.Is(err, ErrEmptyFrame) {
		t.Errorf("Expected ErrEmptyFrame, got %v", err)
	}
}

func TestClientDetectRetries(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(Result{Backend: "mediapipe-cpu"})
	}))
	defer server.Close()

	client, _ := NewClient(
		WithBaseURL(server.URL),
		WithRetry(2, time.Millisecond),
	)
	defer client.Close()

	result, err := client.Detect(context.Background(), testFrame)
	if err != nil {
		t.Fatalf("Detect failed after retry: %v", err)
	}
	if attempts != 2 {
		t.Errorf("Expected 2 attempts, got %d", attempts)
	}
	if result.Backend != "mediapipe-cpu" {
		t.Errorf("Unexpected backend: %s", result.Backend)
	}
}

func TestClientDetectError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid image format"})
	}))
	defer server.Close()

	client, _ := NewClient(WithBaseURL(server.URL))
	defer client.Close()

	_, err := client.Detect(context.Background(), testFrame)
	if err == nil {
		t.Fatal("Expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected APIError, got %T", err)
	}
	if apiErr.StatusCode != 400 {
		t.Errorf("Expected 400, got %d", apiErr.StatusCode)
	}
	if apiErr.Message != "Invalid image format" {
		t.Errorf("Unexpected message: %s", apiErr.Message)
	}
	if apiErr.IsRetryable() {
		t.Error("400 should not be retryable")
	}
}

func TestClientHealth(t *testing.T) {
	ready := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("Expected /health, got %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(ServiceStatus{
			Status: "healthy",
			Ready:  ready,
			ModelsLoaded: map[string]bool{
				"object_detector": ready,
				"pose_landmarker": ready,
			},
		})
	}))
	defer server.Close()

	client, _ := NewClient(WithBaseURL(server.URL))
	defer client.Close()

	// Models not loaded yet
	if err := client.Health(context.Background()); !errors.Is(err, ErrNotReady) {
		t.Errorf("Expected ErrNotReady, got %v", err)
	}

	ready = true
	if err := client.Health(context.Background()); err != nil {
		t.Errorf("Health check failed: %v", err)
	}
}

func TestUsableKeypoint(t *testing.T) {
	r := &Result{Keypoints: []Keypoint{
		{Name: KeypointNose, X: 10, Y: 20, Visibility: 0.9},
		{Name: KeypointLeftWrist, X: 5, Y: 80, Visibility: 0.1},
	}}

	if kp := r.UsableKeypoint(KeypointNose, 0.2); kp == nil {
		t.Error("Expected nose to be usable")
	}
	if kp := r.UsableKeypoint(KeypointLeftWrist, 0.3); kp != nil {
		t.Error("Expected low-visibility wrist to be unusable")
	}
	if kp := r.UsableKeypoint(KeypointRightWrist, 0.3); kp != nil {
		t.Error("Expected missing keypoint to be nil")
	}
}
