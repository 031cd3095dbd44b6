package handler

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/attendly/api/internal/model"
	"github.com/attendly/api/internal/service"
)

// StreamHandler handles Server-Sent Events endpoints
type StreamHandler struct {
	hub          *service.Hub
	eventService EventService
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(hub *service.Hub, eventService EventService) *StreamHandler {
	return &StreamHandler{
		hub:          hub,
		eventService: eventService,
	}
}

// Firehose handles GET /v1/events/stream.
// Every published fact is delivered on this channel.
func (h *StreamHandler) Firehose(w http.ResponseWriter, r *http.Request) {
	h.stream(w, r, service.ChannelFirehose)
}

// PerEvent handles GET /v1/events/{eventId}/stream.
// Subscribing to an unknown event is a 404 rather than a silent empty stream.
func (h *StreamHandler) PerEvent(w http.ResponseWriter, r *http.Request) {
	eventID := eventRecordID(r.PathValue("eventId"))

	if _, err := h.eventService.GetEvent(r.Context(), eventID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	h.stream(w, r, service.EventChannel(eventID))
}

func (h *StreamHandler) stream(w http.ResponseWriter, r *http.Request, channel string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, model.NewInternalError("streaming not supported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	subscriberID := uuid.New().String()
	sub := h.hub.Subscribe(channel, subscriberID)
	defer h.hub.Unsubscribe(channel, subscriberID)

	// Initial frame so clients know the subscription is live
	fmt.Fprintf(w, "event: connected\ndata: {\"channel\":%q}\n\n", channel)
	flusher.Flush()

	for {
		select {
		case fact, ok := <-sub.Facts:
			if !ok {
				return
			}
			fmt.Fprint(w, fact.Format())
			flusher.Flush()
		case <-sub.Done:
			return
		case <-r.Context().Done():
			return
		}
	}
}
