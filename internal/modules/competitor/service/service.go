package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"
	"racego.com/raceapi/internal/entity"
	"racego.com/raceapi/internal/modules/competitor/dto"
	"racego.com/raceapi/internal/modules/competitor/repository"
	searchService "racego.com/raceapi/internal/modules/search/service"
	"racego.com/raceapi/pkg/apperror"
	"racego.com/raceapi/pkg/database"
	"racego.com/raceapi/pkg/laptime"
	"racego.com/raceapi/pkg/sanitize"
)

const defaultSearchLimit = 20

type CompetitorService interface {
	GetUsers(ctx context.Context, raceID uint) ([]dto.CompetitorSummary, error)
	GetUserDetails(ctx context.Context, raceID, userID uint) (*dto.CompetitorDetails, error)
	AddUser(ctx context.Context, raceID uint, req dto.CompetitorRequest) (*dto.CreateCompetitorResponse, error)
	SetUserDetails(ctx context.Context, raceID, userID uint, req dto.CompetitorRequest) (*dto.CompetitorDetails, error)
	DeleteUser(ctx context.Context, raceID, userID uint) (*dto.AffectedRows, error)
	SearchUsers(ctx context.Context, raceID uint, query dto.SearchQuery) ([]dto.CompetitorSummary, error)
}

type competitorService struct {
	repo   repository.CompetitorRepository
	search searchService.SearchService
}

func NewCompetitorService(repo repository.CompetitorRepository, search searchService.SearchService) CompetitorService {
	return &competitorService{
		repo:   repo,
		search: search,
	}
}

func (s *competitorService) GetUsers(ctx context.Context, raceID uint) ([]dto.CompetitorSummary, error) {
	rows, err := s.repo.ListWithLapCount(ctx, raceID)
	if err != nil {
		return nil, err
	}

	users := make([]dto.CompetitorSummary, 0, len(rows))
	for _, r := range rows {
		users = append(users, dto.CompetitorSummary{
			ID:        r.ID,
			FirstName: r.FirstName,
			LastName:  r.LastName,
			Laps:      r.Laps,
		})
	}
	return users, nil
}

func (s *competitorService) GetUserDetails(ctx context.Context, raceID, userID uint) (*dto.CompetitorDetails, error) {
	competitor, err := s.find(ctx, raceID, userID)
	if err != nil {
		return nil, err
	}

	classes, err := s.repo.FindClasses(ctx, raceID, userID)
	if err != nil {
		return nil, err
	}

	laps, err := s.repo.FindLaps(ctx, raceID, userID)
	if err != nil {
		return nil, err
	}

	return &dto.CompetitorDetails{
		ID:        competitor.ID,
		FirstName: competitor.FirstName,
		LastName:  competitor.LastName,
		Class:     classes,
		Laps:      laps,
	}, nil
}

func (s *competitorService) AddUser(ctx context.Context, raceID uint, req dto.CompetitorRequest) (*dto.CreateCompetitorResponse, error) {
	input, err := normalizeRequest(req)
	if err != nil {
		return nil, err
	}

	if err := s.ensureNameFree(ctx, raceID, input.FirstName, input.LastName, 0); err != nil {
		return nil, err
	}

	competitor := &entity.Competitor{
		RaceID:    raceID,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	}
	if err := s.repo.Create(ctx, competitor, input.Class, input.Laps); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, duplicateName(input)
		}
		return nil, err
	}

	s.index(competitor, input.Class)

	return &dto.CreateCompetitorResponse{ID: competitor.ID}, nil
}

func (s *competitorService) SetUserDetails(ctx context.Context, raceID, userID uint, req dto.CompetitorRequest) (*dto.CompetitorDetails, error) {
	input, err := normalizeRequest(req)
	if err != nil {
		return nil, err
	}

	competitor, err := s.find(ctx, raceID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureNameFree(ctx, raceID, input.FirstName, input.LastName, userID); err != nil {
		return nil, err
	}

	competitor.FirstName = input.FirstName
	competitor.LastName = input.LastName
	if err := s.repo.Replace(ctx, competitor, input.Class, input.Laps); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, duplicateName(input)
		}
		return nil, err
	}

	s.index(competitor, input.Class)

	return s.GetUserDetails(ctx, raceID, userID)
}

func (s *competitorService) DeleteUser(ctx context.Context, raceID, userID uint) (*dto.AffectedRows, error) {
	affected, err := s.repo.Delete(ctx, raceID, userID)
	if err != nil {
		return nil, err
	}

	if s.search != nil {
		if err := s.search.DeleteCompetitor(userID); err != nil {
			log.Printf("Failed to remove competitor %d from search index: %v", userID, err)
		}
	}

	return &dto.AffectedRows{AffectedRows: affected}, nil
}

// SearchUsers resolves index hits against the database so that stale index
// entries never leak competitors of another race.
func (s *competitorService) SearchUsers(ctx context.Context, raceID uint, query dto.SearchQuery) ([]dto.CompetitorSummary, error) {
	if s.search == nil {
		return nil, apperror.New(apperror.ErrNotFound, "search is not enabled")
	}

	limit := query.Limit
	if limit == 0 {
		limit = defaultSearchLimit
	}

	ids, err := s.search.SearchCompetitors(raceID, query.Query, limit)
	if err != nil {
		return nil, fmt.Errorf("search competitors: %w", err)
	}

	found, err := s.repo.FindByIDs(ctx, raceID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]entity.Competitor, len(found))
	for _, c := range found {
		byID[c.ID] = c
	}

	results := make([]dto.CompetitorSummary, 0, len(found))
	for _, id := range ids {
		c, ok := byID[id]
		if !ok {
			continue
		}
		results = append(results, dto.CompetitorSummary{ID: c.ID, FirstName: c.FirstName, LastName: c.LastName})
	}
	return results, nil
}

func (s *competitorService) find(ctx context.Context, raceID, userID uint) (*entity.Competitor, error) {
	competitor, err := s.repo.FindByID(ctx, raceID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", userID, apperror.ErrNotFound)
		}
		return nil, err
	}
	return competitor, nil
}

func (s *competitorService) ensureNameFree(ctx context.Context, raceID uint, first, last string, excludeID uint) error {
	taken, err := s.repo.NameTaken(ctx, raceID, first, last, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return duplicateName(dto.CompetitorRequest{FirstName: first, LastName: last})
	}
	return nil
}

func (s *competitorService) index(competitor *entity.Competitor, classes []string) {
	if s.search == nil {
		return
	}
	if err := s.search.IndexCompetitor(competitor, classes); err != nil {
		log.Printf("Failed to index competitor %d: %v", competitor.ID, err)
	}
}

func normalizeRequest(req dto.CompetitorRequest) (dto.CompetitorRequest, error) {
	out := dto.CompetitorRequest{
		FirstName: sanitize.Text(req.FirstName),
		LastName:  sanitize.Text(req.LastName),
		Class:     sanitize.Labels(req.Class),
	}

	details := map[string]string{}
	if out.FirstName == "" {
		details["first_name"] = "first name is required"
	}
	if out.LastName == "" {
		details["last_name"] = "last name is required"
	}
	if len(details) > 0 {
		return out, apperror.Validation("invalid input data", details)
	}

	laps, err := laptime.NormalizeAll(req.Laps)
	if err != nil {
		return out, err
	}
	out.Laps = laps
	return out, nil
}

func duplicateName(req dto.CompetitorRequest) error {
	return apperror.New(apperror.ErrAlreadyExists,
		fmt.Sprintf("user %s %s already exists in this race", req.FirstName, req.LastName))
}
