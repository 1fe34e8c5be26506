package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"racego.com/raceapi/internal/entity"
	"racego.com/raceapi/pkg/apperror"
	"racego.com/raceapi/pkg/database"
)

// Summary is a race as seen by one of its managers.
type Summary struct {
	ID       uint
	Name     string
	Managers int64
	IsAdmin  bool
}

type Manager struct {
	Username string
	IsAdmin  bool
}

type RaceRepository interface {
	ListForLogin(ctx context.Context, loginID uint) ([]Summary, error)
	FindByID(ctx context.Context, raceID uint) (*entity.Race, error)
	CreateWithAdmin(ctx context.Context, race *entity.Race, loginID uint) error
	Rename(ctx context.Context, raceID uint, name string) (int64, error)
	Delete(ctx context.Context, raceID uint) (int64, error)
	HasAccess(ctx context.Context, loginID, raceID uint, adminOnly bool) (bool, error)
	FindManagers(ctx context.Context, raceID uint) ([]Manager, error)
	ReplaceDetails(ctx context.Context, raceID uint, name string, relations []entity.RaceRelation) error
	FindRelation(ctx context.Context, loginID, raceID uint) (*entity.RaceRelation, error)
	AddRelation(ctx context.Context, relation *entity.RaceRelation) error
	// DeleteRelation removes the login from the race. Removing the last
	// admin fails with a validation error and changes nothing.
	DeleteRelation(ctx context.Context, loginID, raceID uint) (int64, error)
}

type raceRepository struct {
	db *gorm.DB
}

func NewRaceRepository(db *gorm.DB) RaceRepository {
	return &raceRepository{db: db}
}

func (r *raceRepository) ListForLogin(ctx context.Context, loginID uint) ([]Summary, error) {
	var races []Summary
	err := r.db.WithContext(ctx).Raw(`
		SELECT race_relations.race_id AS id, race_overview.name AS name,
		       a.managers AS managers, race_relations.is_admin AS is_admin
		FROM race_relations
		JOIN (SELECT race_id, COUNT(login_id) AS managers FROM race_relations GROUP BY race_id) AS a
		  ON race_relations.race_id = a.race_id
		JOIN race_overview ON race_relations.race_id = race_overview.id
		WHERE race_relations.login_id = ?
		ORDER BY race_overview.id`, loginID).
		Scan(&races).Error
	if err != nil {
		return nil, err
	}
	return races, nil
}

func (r *raceRepository) FindByID(ctx context.Context, raceID uint) (*entity.Race, error) {
	var race entity.Race
	if err := r.db.WithContext(ctx).First(&race, "id = ?", raceID).Error; err != nil {
		return nil, err
	}
	return &race, nil
}

func (r *raceRepository) CreateWithAdmin(ctx context.Context, race *entity.Race, loginID uint) error {
	return database.Transaction(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Create(race).Error; err != nil {
			return err
		}
		return tx.Create(&entity.RaceRelation{
			LoginID: loginID,
			RaceID:  race.ID,
			IsAdmin: true,
		}).Error
	})
}

func (r *raceRepository) Rename(ctx context.Context, raceID uint, name string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&entity.Race{}).Where("id = ?", raceID).Update("name", name)
	return res.RowsAffected, res.Error
}

// Delete removes the race and every row scoped to it.
func (r *raceRepository) Delete(ctx context.Context, raceID uint) (int64, error) {
	var affected int64
	err := database.Transaction(ctx, r.db, func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&entity.Track{},
			&entity.Lap{},
			&entity.UserClass{},
			&entity.Competitor{},
			&entity.RaceRelation{},
		} {
			if err := tx.Where("race_id = ?", raceID).Delete(model).Error; err != nil {
				return err
			}
		}

		res := tx.Where("id = ?", raceID).Delete(&entity.Race{})
		affected = res.RowsAffected
		return res.Error
	})
	return affected, err
}

func (r *raceRepository) HasAccess(ctx context.Context, loginID, raceID uint, adminOnly bool) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&entity.RaceRelation{}).
		Where("login_id = ? AND race_id = ?", loginID, raceID)
	if adminOnly {
		query = query.Where("is_admin = ?", true)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *raceRepository) FindManagers(ctx context.Context, raceID uint) ([]Manager, error) {
	var managers []Manager
	err := r.db.WithContext(ctx).Table("race_relations").
		Select("login.username AS username, race_relations.is_admin AS is_admin").
		Joins("JOIN login ON login.id = race_relations.login_id").
		Where("race_relations.race_id = ?", raceID).
		Order("login.username").
		Scan(&managers).Error
	if err != nil {
		return nil, err
	}
	return managers, nil
}

func (r *raceRepository) ReplaceDetails(ctx context.Context, raceID uint, name string, relations []entity.RaceRelation) error {
	return database.Transaction(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Model(&entity.Race{}).Where("id = ?", raceID).Update("name", name).Error; err != nil {
			return err
		}
		if err := tx.Where("race_id = ?", raceID).Delete(&entity.RaceRelation{}).Error; err != nil {
			return err
		}
		for i := range relations {
			relations[i].ID = 0
			relations[i].RaceID = raceID
			if err := tx.Create(&relations[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *raceRepository) FindRelation(ctx context.Context, loginID, raceID uint) (*entity.RaceRelation, error) {
	var relation entity.RaceRelation
	if err := r.db.WithContext(ctx).
		Where("login_id = ? AND race_id = ?", loginID, raceID).
		First(&relation).Error; err != nil {
		return nil, err
	}
	return &relation, nil
}

func (r *raceRepository) AddRelation(ctx context.Context, relation *entity.RaceRelation) error {
	return r.db.WithContext(ctx).Create(relation).Error
}

func (r *raceRepository) DeleteRelation(ctx context.Context, loginID, raceID uint) (int64, error) {
	var affected int64
	err := database.Transaction(ctx, r.db, func(tx *gorm.DB) error {
		// Lock the admin rows so two admins removing each other serialise.
		var admins []entity.RaceRelation
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("race_id = ? AND is_admin = ?", raceID, true).
			Find(&admins).Error; err != nil {
			return err
		}

		var relation entity.RaceRelation
		if err := tx.Where("login_id = ? AND race_id = ?", loginID, raceID).First(&relation).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.New(apperror.ErrNotFound, "delete manager: user is not a manager of this race")
			}
			return err
		}

		if relation.IsAdmin && len(admins) <= 1 {
			return apperror.Validation("delete manager: a race needs at least one admin", nil)
		}

		res := tx.Where("login_id = ? AND race_id = ?", loginID, raceID).Delete(&entity.RaceRelation{})
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		return nil
	})
	return affected, err
}
