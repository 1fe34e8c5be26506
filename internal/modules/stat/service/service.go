package service

import (
	"context"

	"racego.com/raceapi/internal/modules/stat/dto"
	"racego.com/raceapi/internal/modules/stat/repository"
)

type StatService interface {
	GetRaceStats(ctx context.Context, raceID uint) (*dto.RaceStats, error)
}

type statService struct {
	repo repository.StatRepository
}

func NewStatService(repo repository.StatRepository) StatService {
	return &statService{
		repo: repo,
	}
}

func (s *statService) GetRaceStats(ctx context.Context, raceID uint) (*dto.RaceStats, error) {
	var (
		stats dto.RaceStats
		err   error
	)

	if stats.Competitors, err = s.repo.CountCompetitors(ctx, raceID); err != nil {
		return nil, err
	}
	if stats.Laps, err = s.repo.CountLaps(ctx, raceID); err != nil {
		return nil, err
	}
	if stats.OnTrack, err = s.repo.CountOnTrack(ctx, raceID); err != nil {
		return nil, err
	}
	if stats.Categories, err = s.repo.CountCategories(ctx, raceID); err != nil {
		return nil, err
	}
	return &stats, nil
}
