package repository

import (
	"context"

	"gorm.io/gorm"
	"racego.com/raceapi/internal/entity"
)

type LapRow struct {
	UserID    uint
	FirstName string
	LastName  string
	LapTime   string
}

type RankingRepository interface {
	Categories(ctx context.Context, raceID uint) ([]string, error)
	// Laps returns every lap of the race joined with its competitor. A non
	// empty class keeps only competitors carrying that class.
	Laps(ctx context.Context, raceID uint, class string) ([]LapRow, error)
}

type rankingRepository struct {
	db *gorm.DB
}

func NewRankingRepository(db *gorm.DB) RankingRepository {
	return &rankingRepository{db: db}
}

func (r *rankingRepository) Categories(ctx context.Context, raceID uint) ([]string, error) {
	categories := []string{}
	err := r.db.WithContext(ctx).Model(&entity.UserClass{}).
		Where("race_id = ?", raceID).
		Distinct("class").
		Order("class").
		Pluck("class", &categories).Error
	return categories, err
}

func (r *rankingRepository) Laps(ctx context.Context, raceID uint, class string) ([]LapRow, error) {
	var rows []LapRow

	query := `
		SELECT u.id AS user_id, u.first_name AS first_name, u.last_name AS last_name, l.lap_time AS lap_time
		FROM laps AS l
		JOIN "user" AS u ON u.id = l.user_id_ref AND u.race_id = l.race_id
		WHERE l.race_id = ?`
	args := []interface{}{raceID}

	if class != "" {
		query += ` AND EXISTS (
			SELECT 1 FROM user_class AS c
			WHERE c.race_id = u.race_id AND c.user_id_ref = u.id AND c.class = ?)`
		args = append(args, class)
	}

	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
