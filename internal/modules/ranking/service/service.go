package service

import (
	"context"
	"log"
	"sort"
	"time"

	"racego.com/raceapi/internal/modules/ranking/dto"
	"racego.com/raceapi/internal/modules/ranking/repository"
	"racego.com/raceapi/pkg/apperror"
	"racego.com/raceapi/pkg/laptime"
	"racego.com/raceapi/pkg/sanitize"
)

// AllClasses selects every competitor of the race.
const AllClasses = "all"

type RankingService interface {
	GetCategories(ctx context.Context, raceID uint) ([]string, error)
	GetRanking(ctx context.Context, raceID uint, classOrAll string) ([]dto.RankingEntry, error)
}

type rankingService struct {
	repo repository.RankingRepository
}

func NewRankingService(repo repository.RankingRepository) RankingService {
	return &rankingService{repo: repo}
}

func (s *rankingService) GetCategories(ctx context.Context, raceID uint) ([]string, error) {
	return s.repo.Categories(ctx, raceID)
}

type best struct {
	row  repository.LapRow
	time time.Duration
}

func (s *rankingService) GetRanking(ctx context.Context, raceID uint, classOrAll string) ([]dto.RankingEntry, error) {
	class := sanitize.Text(classOrAll)
	if class == "" {
		return nil, apperror.Validation("invalid class", map[string]string{
			"class": "class must not be empty",
		})
	}
	if class == AllClasses {
		class = ""
	}

	rows, err := s.repo.Laps(ctx, raceID, class)
	if err != nil {
		return nil, err
	}

	byUser := make(map[uint]*best)
	for _, row := range rows {
		d, err := laptime.Parse(row.LapTime)
		if err != nil {
			log.Printf("Skipping malformed lap time %q of user %d: %v", row.LapTime, row.UserID, err)
			continue
		}
		if b, ok := byUser[row.UserID]; !ok || d < b.time {
			byUser[row.UserID] = &best{row: row, time: d}
		}
	}

	bests := make([]*best, 0, len(byUser))
	for _, b := range byUser {
		bests = append(bests, b)
	}
	sort.Slice(bests, func(i, j int) bool {
		a, b := bests[i], bests[j]
		if a.time != b.time {
			return a.time < b.time
		}
		if a.row.LastName != b.row.LastName {
			return a.row.LastName < b.row.LastName
		}
		if a.row.FirstName != b.row.FirstName {
			return a.row.FirstName < b.row.FirstName
		}
		return a.row.UserID < b.row.UserID
	})

	times := make([]time.Duration, len(bests))
	for i, b := range bests {
		times[i] = b.time
	}
	ranks := DenseRank(times)

	ranking := make([]dto.RankingEntry, len(bests))
	for i, b := range bests {
		ranking[i] = dto.RankingEntry{
			ID:        b.row.UserID,
			FirstName: b.row.FirstName,
			LastName:  b.row.LastName,
			BestTime:  laptime.Format(b.time),
			Rank:      ranks[i],
		}
	}
	return ranking, nil
}
