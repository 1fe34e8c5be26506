package service

import (
	"context"
	"fmt"

	"racego.com/raceapi/internal/entity"
	live "racego.com/raceapi/internal/modules/live/service"
	"racego.com/raceapi/internal/modules/track/dto"
	"racego.com/raceapi/internal/modules/track/repository"
	"racego.com/raceapi/pkg/apperror"
	"racego.com/raceapi/pkg/database"
	"racego.com/raceapi/pkg/laptime"
)

// TrackService moves competitors between off track and on track. Submitting
// a lap is the only way back off the track that records a time.
type TrackService interface {
	GetTrack(ctx context.Context, raceID uint) ([]dto.OnTrackCompetitor, error)
	AddOntrack(ctx context.Context, raceID, userID uint) (*dto.TrackResponse, error)
	SubmitLap(ctx context.Context, raceID uint, req dto.SubmitLapRequest) (*dto.LapResponse, error)
	CancelLap(ctx context.Context, raceID, userID uint) (*dto.AffectedRows, error)
}

type trackService struct {
	repo repository.TrackRepository
	live live.LiveService
}

// NewTrackService wires the track repository. live may be nil.
func NewTrackService(repo repository.TrackRepository, live live.LiveService) TrackService {
	return &trackService{
		repo: repo,
		live: live,
	}
}

func (s *trackService) GetTrack(ctx context.Context, raceID uint) ([]dto.OnTrackCompetitor, error) {
	rows, err := s.repo.ListOnTrack(ctx, raceID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.OnTrackCompetitor, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.OnTrackCompetitor{ID: r.ID, FirstName: r.FirstName, LastName: r.LastName})
	}
	return out, nil
}

func (s *trackService) AddOntrack(ctx context.Context, raceID, userID uint) (*dto.TrackResponse, error) {
	exists, err := s.repo.CompetitorExists(ctx, raceID, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("user %d: %w", userID, apperror.ErrNotFound)
	}

	onTrack, err := s.repo.IsOnTrack(ctx, raceID, userID)
	if err != nil {
		return nil, err
	}
	if onTrack {
		return nil, alreadyOnTrack(userID)
	}

	if err := s.repo.Add(ctx, raceID, userID); err != nil {
		// Lost a race against a concurrent insert.
		if database.IsUniqueViolation(err) {
			return nil, alreadyOnTrack(userID)
		}
		return nil, err
	}

	s.publish(ctx, live.Event{Type: live.EventOnTrack, RaceID: raceID, UserID: userID})

	return &dto.TrackResponse{ID: userID}, nil
}

func (s *trackService) SubmitLap(ctx context.Context, raceID uint, req dto.SubmitLapRequest) (*dto.LapResponse, error) {
	lapTime, err := laptime.Normalize(req.Time)
	if err != nil {
		return nil, err
	}

	onTrack, err := s.repo.IsOnTrack(ctx, raceID, req.ID)
	if err != nil {
		return nil, err
	}
	if !onTrack {
		return nil, apperror.Validation("user is not on track", map[string]string{
			"id": "user is not on track",
		})
	}

	lap := &entity.Lap{RaceID: raceID, UserIDRef: req.ID, LapTime: lapTime}
	if err := s.repo.SubmitLap(ctx, lap); err != nil {
		return nil, err
	}

	s.publish(ctx, live.Event{Type: live.EventLap, RaceID: raceID, UserID: req.ID, LapTime: lapTime})

	return &dto.LapResponse{ID: lap.ID, LapTime: lap.LapTime}, nil
}

// CancelLap takes the competitor off the track without recording a time.
// Cancelling a competitor that is not on track affects zero rows.
func (s *trackService) CancelLap(ctx context.Context, raceID, userID uint) (*dto.AffectedRows, error) {
	affected, err := s.repo.Cancel(ctx, raceID, userID)
	if err != nil {
		return nil, err
	}

	if affected > 0 {
		s.publish(ctx, live.Event{Type: live.EventCancel, RaceID: raceID, UserID: userID})
	}

	return &dto.AffectedRows{AffectedRows: affected}, nil
}

func (s *trackService) publish(ctx context.Context, event live.Event) {
	if s.live == nil {
		return
	}
	s.live.Publish(ctx, event)
}

func alreadyOnTrack(userID uint) error {
	return apperror.New(apperror.ErrAlreadyExists, fmt.Sprintf("user %d is already on track", userID))
}
