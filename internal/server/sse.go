package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"beauty/advisor/internal/chat"
)

// frameStream writes chat frames as server-sent events. Headers are sent
// with the first frame so errors raised before it can still use a status code.
type frameStream struct {
	w       http.ResponseWriter
	flusher http.Flusher
	started bool
}

func newFrameStream(w http.ResponseWriter) (*frameStream, bool) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, false
	}
	return &frameStream{w: w, flusher: flusher}, true
}

func (s *frameStream) Started() bool {
	return s.started
}

// Emit is a chat.Emit
func (s *frameStream) Emit(frame chat.Frame) error {
	if !s.started {
		h := s.w.Header()
		h.Set("Content-Type", "text/event-stream; charset=utf-8")
		h.Set("Cache-Control", "no-cache, no-store, must-revalidate")
		h.Set("Connection", "keep-alive")
		h.Set("X-Accel-Buffering", "no")
		s.w.WriteHeader(http.StatusOK)
		s.started = true
	}

	if err := writeSSEData(s.w, frame); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

func writeSSEData(w http.ResponseWriter, frame chat.Frame) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(frame); err != nil {
		return err
	}
	payload := bytes.TrimRight(buf.Bytes(), "\n")
	if bytes.Contains(payload, []byte("\n")) {
		return fmt.Errorf("SSE payload must be single-line JSON")
	}

	if _, err := w.Write([]byte("data: ")); err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	_, err := w.Write([]byte("\n\n"))
	return err
}
