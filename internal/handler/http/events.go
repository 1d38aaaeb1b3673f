package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/attendify/attendify-backend-go/internal/domain/reconcile"
	"github.com/attendify/attendify-backend-go/internal/handler/http/response"
	"github.com/attendify/attendify-backend-go/internal/pkg/sse"
	"github.com/go-chi/chi/v5"
)

const defaultKeepalive = 30 * time.Second

type EventsHandler interface {
	Stream(w http.ResponseWriter, r *http.Request)
}

type eventsHandlerImpl struct {
	hub              *sse.Hub
	reconcileService reconcile.ReconcileService
	keepalive        time.Duration
}

func NewEventsHandler(hub *sse.Hub, reconcileService reconcile.ReconcileService) EventsHandler {
	return &eventsHandlerImpl{
		hub:              hub,
		reconcileService: reconcileService,
		keepalive:        defaultKeepalive,
	}
}

// Stream handles GET /events and GET /events/{id} as server-sent events.
// Without an id every run event is streamed.
func (h *eventsHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	topic := sse.TopicAllRuns
	if id := chi.URLParam(r, "id"); id != "" {
		if _, err := h.reconcileService.GetRun(r.Context(), id); err != nil {
			response.HandleError(w, err)
			return
		}
		topic = id
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	// streams outlive the server write timeout
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(topic)
	defer cleanup()

	writeEvent(w, "connected", map[string]string{"status": "connected", "topic": topic})
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			writeEvent(w, event.Name, event.Data)
			flusher.Flush()

		case <-keepalive.C:
			writeEvent(w, "ping", map[string]int64{"timestamp": time.Now().Unix()})
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, name string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, payload)
}
