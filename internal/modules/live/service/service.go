package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	EventOnTrack = "ontrack"
	EventLap     = "lap"
	EventCancel  = "cancel"
)

// Event is pushed to every live feed subscriber of a race.
type Event struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"`
	RaceID  uint      `json:"race_id"`
	UserID  uint      `json:"user_id"`
	LapTime string    `json:"lap_time,omitempty"`
	At      time.Time `json:"at"`
}

type LiveService interface {
	Publish(ctx context.Context, event Event)
	Subscribe(ctx context.Context, raceID uint) (*redis.PubSub, error)
	Enabled() bool
}

type liveService struct {
	redisClient *redis.Client
}

// NewLiveService returns a feed backed by redis pub/sub. With a nil client
// publishing is a no-op and subscribing fails.
func NewLiveService(redisClient *redis.Client) LiveService {
	return &liveService{redisClient: redisClient}
}

func Channel(raceID uint) string {
	return fmt.Sprintf("race_events:%d", raceID)
}

func (s *liveService) Enabled() bool {
	return s.redisClient != nil
}

// Publish is best effort. Lap data is already committed when events are sent.
func (s *liveService) Publish(ctx context.Context, event Event) {
	if s.redisClient == nil {
		return
	}

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to encode race event: %v", err)
		return
	}

	if err := s.redisClient.Publish(ctx, Channel(event.RaceID), payload).Err(); err != nil {
		log.Printf("Failed to publish race event to %s: %v", Channel(event.RaceID), err)
	}
}

func (s *liveService) Subscribe(ctx context.Context, raceID uint) (*redis.PubSub, error) {
	if s.redisClient == nil {
		return nil, fmt.Errorf("live feed: redis is not configured")
	}

	pubsub := s.redisClient.Subscribe(ctx, Channel(raceID))
	// Wait for confirmation that subscription is created
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("live feed: subscribe: %w", err)
	}
	return pubsub, nil
}
