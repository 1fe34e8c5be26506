package repository

import (
	"context"

	"gorm.io/gorm"
	"racego.com/raceapi/internal/entity"
	"racego.com/raceapi/pkg/apperror"
	"racego.com/raceapi/pkg/database"
)

type Summary struct {
	ID        uint
	FirstName string
	LastName  string
	Laps      int64
}

type CompetitorRepository interface {
	ListWithLapCount(ctx context.Context, raceID uint) ([]Summary, error)
	FindByID(ctx context.Context, raceID, id uint) (*entity.Competitor, error)
	FindByIDs(ctx context.Context, raceID uint, ids []uint) ([]entity.Competitor, error)
	FindClasses(ctx context.Context, raceID, id uint) ([]string, error)
	FindLaps(ctx context.Context, raceID, id uint) ([]string, error)
	NameTaken(ctx context.Context, raceID uint, firstName, lastName string, excludeID uint) (bool, error)
	Create(ctx context.Context, competitor *entity.Competitor, classes, laps []string) error
	Replace(ctx context.Context, competitor *entity.Competitor, classes, laps []string) error
	Delete(ctx context.Context, raceID, id uint) (int64, error)
}

type competitorRepository struct {
	db *gorm.DB
}

func NewCompetitorRepository(db *gorm.DB) CompetitorRepository {
	return &competitorRepository{db: db}
}

func (r *competitorRepository) ListWithLapCount(ctx context.Context, raceID uint) ([]Summary, error) {
	var rows []Summary
	err := r.db.WithContext(ctx).Raw(`
		SELECT u.id AS id, u.first_name AS first_name, u.last_name AS last_name, COUNT(laps.id) AS laps
		FROM "user" AS u
		LEFT JOIN laps ON laps.user_id_ref = u.id AND laps.race_id = u.race_id
		WHERE u.race_id = ?
		GROUP BY u.id, u.first_name, u.last_name
		ORDER BY u.last_name, u.first_name, u.id`, raceID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *competitorRepository) FindByID(ctx context.Context, raceID, id uint) (*entity.Competitor, error) {
	var competitor entity.Competitor
	if err := r.db.WithContext(ctx).
		Where("race_id = ? AND id = ?", raceID, id).
		First(&competitor).Error; err != nil {
		return nil, err
	}
	return &competitor, nil
}

func (r *competitorRepository) FindByIDs(ctx context.Context, raceID uint, ids []uint) ([]entity.Competitor, error) {
	var competitors []entity.Competitor
	if len(ids) == 0 {
		return competitors, nil
	}
	if err := r.db.WithContext(ctx).
		Where("race_id = ? AND id IN ?", raceID, ids).
		Find(&competitors).Error; err != nil {
		return nil, err
	}
	return competitors, nil
}

func (r *competitorRepository) FindClasses(ctx context.Context, raceID, id uint) ([]string, error) {
	classes := []string{}
	err := r.db.WithContext(ctx).Model(&entity.UserClass{}).
		Where("race_id = ? AND user_id_ref = ?", raceID, id).
		Order("class").
		Pluck("class", &classes).Error
	return classes, err
}

func (r *competitorRepository) FindLaps(ctx context.Context, raceID, id uint) ([]string, error) {
	laps := []string{}
	err := r.db.WithContext(ctx).Model(&entity.Lap{}).
		Where("race_id = ? AND user_id_ref = ?", raceID, id).
		Order("id").
		Pluck("lap_time", &laps).Error
	return laps, err
}

func (r *competitorRepository) NameTaken(ctx context.Context, raceID uint, firstName, lastName string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&entity.Competitor{}).
		Where("race_id = ? AND first_name = ? AND last_name = ?", raceID, firstName, lastName)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *competitorRepository) Create(ctx context.Context, competitor *entity.Competitor, classes, laps []string) error {
	return database.Transaction(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Create(competitor).Error; err != nil {
			return err
		}
		return insertClassesAndLaps(tx, competitor, classes, laps)
	})
}

// Replace updates the names and swaps the class and lap sets for the given ones.
func (r *competitorRepository) Replace(ctx context.Context, competitor *entity.Competitor, classes, laps []string) error {
	return database.Transaction(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Model(&entity.Competitor{}).
			Where("race_id = ? AND id = ?", competitor.RaceID, competitor.ID).
			Updates(map[string]interface{}{
				"first_name": competitor.FirstName,
				"last_name":  competitor.LastName,
			}).Error; err != nil {
			return err
		}

		scope := tx.Where("race_id = ? AND user_id_ref = ?", competitor.RaceID, competitor.ID)
		if err := scope.Delete(&entity.UserClass{}).Error; err != nil {
			return err
		}
		scope = tx.Where("race_id = ? AND user_id_ref = ?", competitor.RaceID, competitor.ID)
		if err := scope.Delete(&entity.Lap{}).Error; err != nil {
			return err
		}

		return insertClassesAndLaps(tx, competitor, classes, laps)
	})
}

func (r *competitorRepository) Delete(ctx context.Context, raceID, id uint) (int64, error) {
	var affected int64
	err := database.Transaction(ctx, r.db, func(tx *gorm.DB) error {
		for _, model := range []interface{}{&entity.UserClass{}, &entity.Lap{}, &entity.Track{}} {
			if err := tx.Where("race_id = ? AND user_id_ref = ?", raceID, id).Delete(model).Error; err != nil {
				return err
			}
		}

		res := tx.Where("race_id = ? AND id = ?", raceID, id).Delete(&entity.Competitor{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.New(apperror.ErrNotFound, "delete user: no such competitor")
		}
		affected = res.RowsAffected
		return nil
	})
	return affected, err
}

func insertClassesAndLaps(tx *gorm.DB, competitor *entity.Competitor, classes, laps []string) error {
	for _, class := range classes {
		if err := tx.Create(&entity.UserClass{
			RaceID:    competitor.RaceID,
			UserIDRef: competitor.ID,
			Class:     class,
		}).Error; err != nil {
			return err
		}
	}
	for _, lapTime := range laps {
		if err := tx.Create(&entity.Lap{
			RaceID:    competitor.RaceID,
			UserIDRef: competitor.ID,
			LapTime:   lapTime,
		}).Error; err != nil {
			return err
		}
	}
	return nil
}
