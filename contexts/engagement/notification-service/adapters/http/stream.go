package httpadapter

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"sentinel/contexts/engagement/notification-service/application"
)

// sseConnection is one server-sent-events stream. Writes are serialized so
// concurrent pushes from the fanout cannot interleave frames.
type sseConnection struct {
	mu      sync.Mutex
	w       io.Writer
	flusher http.Flusher
}

func (c *sseConnection) Send(_ context.Context, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := fmt.Fprintf(c.w, "data: %s\n\n", payload); err != nil {
		return err
	}
	c.flusher.Flush()
	return nil
}

// StreamHandler opens a live notification stream for the caller. The
// connection stays registered until the client disconnects; every
// notification addressed to the user is pushed as an SSE data frame.
func (h Handler) StreamHandler(w http.ResponseWriter, r *http.Request, userID string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	conn := &sseConnection{w: w, flusher: flusher}
	h.Registry.Register(userID, conn)
	defer h.Registry.Unregister(userID, conn)

	application.ResolveLogger(h.Logger).Info("notification stream opened",
		"event", "notification_stream_opened",
		"module", "engagement/notification-service",
		"layer", "adapter",
		"user_id", userID,
	)

	<-r.Context().Done()
}
