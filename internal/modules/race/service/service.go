package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"
	"racego.com/raceapi/internal/entity"
	authRepo "racego.com/raceapi/internal/modules/auth/repository"
	"racego.com/raceapi/internal/modules/race/dto"
	"racego.com/raceapi/internal/modules/race/repository"
	"racego.com/raceapi/pkg/apperror"
	"racego.com/raceapi/pkg/database"
	"racego.com/raceapi/pkg/sanitize"
)

var raceNamePattern = regexp.MustCompile(`^[\p{L}\p{N} ._'-]{1,100}$`)

type RaceService interface {
	ListRaces(ctx context.Context, loginID uint) ([]dto.RaceSummary, error)
	CreateRace(ctx context.Context, loginID uint, req dto.CreateRaceRequest) (*dto.CreateRaceResponse, error)
	UpdateRace(ctx context.Context, loginID uint, req dto.UpdateRaceRequest) (*dto.AffectedRows, error)
	DeleteRace(ctx context.Context, loginID, raceID uint) (*dto.AffectedRows, error)
	GetRaceDetails(ctx context.Context, loginID, raceID uint) (*dto.RaceDetails, error)
	UpdateRaceDetails(ctx context.Context, loginID, raceID uint, req dto.UpdateRaceDetailsRequest) (*dto.RaceDetails, error)
	GetManagers(ctx context.Context, loginID, raceID uint) ([]dto.Manager, error)
	AddManager(ctx context.Context, loginID uint, req dto.ManagerRequest) (*dto.AffectedRows, error)
	DeleteManager(ctx context.Context, loginID uint, req dto.ManagerRequest) (*dto.AffectedRows, error)
	// CheckAccess fails with apperror.ErrUnauthorized unless the login manages
	// the race (or administers it when adminOnly is set).
	CheckAccess(ctx context.Context, loginID, raceID uint, adminOnly bool) error
}

type raceService struct {
	repo      repository.RaceRepository
	loginRepo authRepo.LoginRepository
}

func NewRaceService(repo repository.RaceRepository, loginRepo authRepo.LoginRepository) RaceService {
	return &raceService{
		repo:      repo,
		loginRepo: loginRepo,
	}
}

func (s *raceService) ListRaces(ctx context.Context, loginID uint) ([]dto.RaceSummary, error) {
	if loginID == 0 {
		return nil, apperror.Validation("get races: invalid login", nil)
	}

	rows, err := s.repo.ListForLogin(ctx, loginID)
	if err != nil {
		return nil, err
	}

	races := make([]dto.RaceSummary, 0, len(rows))
	for _, r := range rows {
		races = append(races, dto.RaceSummary{
			ID:       r.ID,
			Name:     r.Name,
			Managers: r.Managers,
			IsAdmin:  r.IsAdmin,
		})
	}
	return races, nil
}

func (s *raceService) CreateRace(ctx context.Context, loginID uint, req dto.CreateRaceRequest) (*dto.CreateRaceResponse, error) {
	if loginID == 0 {
		return nil, apperror.ErrUnauthorized
	}

	name, err := validRaceName(req.Name)
	if err != nil {
		return nil, err
	}

	race := &entity.Race{Name: name}
	if err := s.repo.CreateWithAdmin(ctx, race, loginID); err != nil {
		return nil, err
	}
	if race.ID == 0 {
		return nil, apperror.Validation("add race: failed to insert race", nil)
	}

	return &dto.CreateRaceResponse{RaceID: race.ID}, nil
}

func (s *raceService) UpdateRace(ctx context.Context, loginID uint, req dto.UpdateRaceRequest) (*dto.AffectedRows, error) {
	if err := s.CheckAccess(ctx, loginID, req.ID, true); err != nil {
		return nil, err
	}

	name, err := validRaceName(req.Name)
	if err != nil {
		return nil, err
	}

	affected, err := s.repo.Rename(ctx, req.ID, name)
	if err != nil {
		return nil, err
	}
	return &dto.AffectedRows{AffectedRows: affected}, nil
}

func (s *raceService) DeleteRace(ctx context.Context, loginID, raceID uint) (*dto.AffectedRows, error) {
	if err := s.CheckAccess(ctx, loginID, raceID, true); err != nil {
		return nil, err
	}

	affected, err := s.repo.Delete(ctx, raceID)
	if err != nil {
		return nil, err
	}
	return &dto.AffectedRows{AffectedRows: affected}, nil
}

func (s *raceService) GetRaceDetails(ctx context.Context, loginID, raceID uint) (*dto.RaceDetails, error) {
	if err := s.CheckAccess(ctx, loginID, raceID, false); err != nil {
		return nil, err
	}

	race, err := s.repo.FindByID(ctx, raceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("race %d: %w", raceID, apperror.ErrNotFound)
		}
		return nil, err
	}

	managers, err := s.managers(ctx, raceID)
	if err != nil {
		return nil, err
	}

	return &dto.RaceDetails{
		ID:       race.ID,
		Name:     race.Name,
		Managers: managers,
	}, nil
}

// UpdateRaceDetails rewrites the manager list, so like AddManager and
// DeleteManager it is reserved to admins.
func (s *raceService) UpdateRaceDetails(ctx context.Context, loginID, raceID uint, req dto.UpdateRaceDetailsRequest) (*dto.RaceDetails, error) {
	if err := s.CheckAccess(ctx, loginID, raceID, true); err != nil {
		return nil, err
	}

	name, err := validRaceName(req.Name)
	if err != nil {
		return nil, err
	}

	if len(req.Managers) == 0 {
		return nil, apperror.Validation("update race: managers must not be empty", map[string]string{
			"managers": "at least one manager is required",
		})
	}

	usernames := make([]string, 0, len(req.Managers))
	seen := make(map[string]struct{}, len(req.Managers))
	for _, m := range req.Managers {
		username := strings.TrimSpace(m.Username)
		if username == "" {
			return nil, apperror.Validation("update race: empty username", map[string]string{
				"managers": "username is required",
			})
		}
		if _, dup := seen[username]; dup {
			return nil, apperror.Validation("update race: duplicate manager", map[string]string{
				"managers": fmt.Sprintf("%s is listed twice", username),
			})
		}
		seen[username] = struct{}{}
		usernames = append(usernames, username)
	}

	logins, err := s.loginRepo.FindByUsernames(ctx, usernames)
	if err != nil {
		return nil, err
	}
	idByName := make(map[string]uint, len(logins))
	for _, l := range logins {
		idByName[l.Username] = l.ID
	}

	relations := make([]entity.RaceRelation, 0, len(req.Managers))
	actorKeepsAdmin := false
	for i, m := range req.Managers {
		id, ok := idByName[usernames[i]]
		if !ok {
			return nil, apperror.Validation("update race: unknown user", map[string]string{
				"managers": fmt.Sprintf("%s does not exist", usernames[i]),
			})
		}
		if id == loginID && m.IsAdmin {
			actorKeepsAdmin = true
		}
		relations = append(relations, entity.RaceRelation{LoginID: id, IsAdmin: m.IsAdmin})
	}

	// The acting manager must stay admin, which also guarantees one admin remains.
	if !actorKeepsAdmin {
		return nil, apperror.Validation("update race: you cannot remove your own admin rights", map[string]string{
			"managers": "the acting user must remain an admin",
		})
	}

	if err := s.repo.ReplaceDetails(ctx, raceID, name, relations); err != nil {
		return nil, err
	}

	return s.GetRaceDetails(ctx, loginID, raceID)
}

func (s *raceService) GetManagers(ctx context.Context, loginID, raceID uint) ([]dto.Manager, error) {
	if err := s.CheckAccess(ctx, loginID, raceID, false); err != nil {
		return nil, err
	}
	return s.managers(ctx, raceID)
}

func (s *raceService) AddManager(ctx context.Context, loginID uint, req dto.ManagerRequest) (*dto.AffectedRows, error) {
	if err := s.CheckAccess(ctx, loginID, req.RaceID, true); err != nil {
		return nil, err
	}

	target, err := s.resolveLogin(ctx, req.Username, "add manager")
	if err != nil {
		return nil, err
	}

	_, err = s.repo.FindRelation(ctx, target.ID, req.RaceID)
	if err == nil {
		return nil, apperror.New(apperror.ErrAlreadyExists, "add manager: user is already a manager")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	relation := &entity.RaceRelation{LoginID: target.ID, RaceID: req.RaceID}
	if err := s.repo.AddRelation(ctx, relation); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperror.New(apperror.ErrAlreadyExists, "add manager: user is already a manager")
		}
		return nil, err
	}

	return &dto.AffectedRows{AffectedRows: 1}, nil
}

func (s *raceService) DeleteManager(ctx context.Context, loginID uint, req dto.ManagerRequest) (*dto.AffectedRows, error) {
	if err := s.CheckAccess(ctx, loginID, req.RaceID, true); err != nil {
		return nil, err
	}

	target, err := s.resolveLogin(ctx, req.Username, "delete manager")
	if err != nil {
		return nil, err
	}

	affected, err := s.repo.DeleteRelation(ctx, target.ID, req.RaceID)
	if err != nil {
		return nil, err
	}
	return &dto.AffectedRows{AffectedRows: affected}, nil
}

func (s *raceService) CheckAccess(ctx context.Context, loginID, raceID uint, adminOnly bool) error {
	if loginID == 0 || raceID == 0 {
		return apperror.ErrUnauthorized
	}

	ok, err := s.repo.HasAccess(ctx, loginID, raceID, adminOnly)
	if err != nil {
		return err
	}
	if !ok {
		if adminOnly {
			return apperror.New(apperror.ErrUnauthorized, "admin access required")
		}
		return apperror.New(apperror.ErrUnauthorized, "no access to race")
	}
	return nil
}

func (s *raceService) managers(ctx context.Context, raceID uint) ([]dto.Manager, error) {
	rows, err := s.repo.FindManagers(ctx, raceID)
	if err != nil {
		return nil, err
	}

	managers := make([]dto.Manager, 0, len(rows))
	for _, m := range rows {
		managers = append(managers, dto.Manager{Username: m.Username, IsAdmin: m.IsAdmin})
	}
	return managers, nil
}

func (s *raceService) resolveLogin(ctx context.Context, username, op string) (*entity.Login, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperror.Validation(op+": invalid input data", map[string]string{"username": "username is required"})
	}

	login, err := s.loginRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Validation(op+": unknown user", map[string]string{
				"username": fmt.Sprintf("%s does not exist", username),
			})
		}
		return nil, err
	}
	return login, nil
}

func validRaceName(raw string) (string, error) {
	name := sanitize.Text(raw)
	if !raceNamePattern.MatchString(name) {
		return "", apperror.Validation("invalid race name", map[string]string{
			"name": "name must be 1-100 letters, digits, spaces or . _ ' -",
		})
	}
	return name, nil
}
