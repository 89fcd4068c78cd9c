// focuswatch tails a running FocusFlow daemon's event feed in the
// terminal. Useful for debugging detection without the dashboard.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Techy2419/Focus-Flow/internal/log"
)

func main() {
	addr := flag.String("addr", "localhost:8090", "FocusFlow daemon address")
	raw := flag.Bool("raw", false, "print raw JSON envelopes")
	flag.Parse()

	log.Init(os.Getenv("LOG_LEVEL"))
	logger := log.L()

	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ws/events"}
	logger.Info("connecting", "url", u.String())

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		logger.Error("dial failed", "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				logger.Info("feed closed", "error", err)
				return
			}
			printEnvelope(data, *raw)
		}
	}()

	select {
	case <-done:
	case <-interrupt:
		// Clean close so the daemon drops us immediately
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		select {
		case <-done:
		case <-time.After(time.Second):
		}
	}
}

type envelope struct {
	Event     string          `json:"event"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

func printEnvelope(data []byte, raw bool) {
	if raw {
		fmt.Println(string(data))
		return
	}

	var e envelope
	if err := json.Unmarshal(data, &e); err != nil {
		fmt.Println(string(data))
		return
	}

	summary := summarize(e)
	fmt.Printf("%s  %-12s %s\n", e.Timestamp.Format("15:04:05"), e.Event, summary)
}

func summarize(e envelope) string {
	switch e.Event {
	case "status":
		var st struct {
			PhoneDetected bool `json:"PhoneDetected"`
			FaceDetected  bool `json:"FaceDetected"`
			PoseDetected  bool `json:"PoseDetected"`
		}
		json.Unmarshal(e.Payload, &st)
		return fmt.Sprintf("phone=%v face=%v pose=%v", st.PhoneDetected, st.FaceDetected, st.PoseDetected)

	case "distraction":
		var d struct {
			Type   string `json:"type"`
			Detail string `json:"detail"`
		}
		json.Unmarshal(e.Payload, &d)
		return d.Type

	case "alert":
		var a struct {
			Message string `json:"message"`
		}
		json.Unmarshal(e.Payload, &a)
		return a.Message

	case "session":
		var s struct {
			Status  string `json:"status"`
			Elapsed int    `json:"elapsed_seconds"`
			Score   int    `json:"focus_score"`
		}
		json.Unmarshal(e.Payload, &s)
		return fmt.Sprintf("%s elapsed=%ds score=%d", s.Status, s.Elapsed, s.Score)
	}
	return string(e.Payload)
}
