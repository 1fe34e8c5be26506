package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	liveService "racego.com/raceapi/internal/modules/live/service"
	"racego.com/raceapi/pkg/apperror"
	"racego.com/raceapi/pkg/response"
)

type LiveHandler struct {
	service  liveService.LiveService
	upgrader websocket.Upgrader
}

func NewLiveHandler(service liveService.LiveService, allowedOrigins []string) *LiveHandler {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}

	return &LiveHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := origins[origin]
				return ok
			},
		},
	}
}

// Stream relays the race event channel to a websocket client until either
// side goes away.
func (h *LiveHandler) Stream(c *gin.Context) {
	raceID, err := response.GetRaceID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if !h.service.Enabled() {
		response.ResponseError(c, apperror.New(apperror.ErrNotFound, "live feed is not enabled"))
		return
	}

	pubsub, err := h.service.Subscribe(c.Request.Context(), raceID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	defer pubsub.Close()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade websocket: %v", err)
		return
	}
	defer conn.Close()

	ch := pubsub.Channel()

	clientClosed := make(chan struct{})
	go func() {
		defer close(clientClosed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			// Payloads are already JSON encoded events.
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				log.Printf("Failed to write race event to websocket: %v", err)
				return
			}
		case <-clientClosed:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}
