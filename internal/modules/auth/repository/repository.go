package repository

import (
	"context"

	"gorm.io/gorm"
	"racego.com/raceapi/internal/entity"
)

type LoginRepository interface {
	FindByID(ctx context.Context, id uint) (*entity.Login, error)
	FindByUsername(ctx context.Context, username string) (*entity.Login, error)
	FindByUsernames(ctx context.Context, usernames []string) ([]entity.Login, error)
}

type loginRepository struct {
	db *gorm.DB
}

func NewLoginRepository(db *gorm.DB) LoginRepository {
	return &loginRepository{db: db}
}

func (r *loginRepository) FindByID(ctx context.Context, id uint) (*entity.Login, error) {
	var login entity.Login
	if err := r.db.WithContext(ctx).First(&login, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &login, nil
}

func (r *loginRepository) FindByUsername(ctx context.Context, username string) (*entity.Login, error) {
	var login entity.Login
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&login).Error; err != nil {
		return nil, err
	}
	return &login, nil
}

func (r *loginRepository) FindByUsernames(ctx context.Context, usernames []string) ([]entity.Login, error) {
	var logins []entity.Login
	if len(usernames) == 0 {
		return logins, nil
	}
	if err := r.db.WithContext(ctx).Where("username IN ?", usernames).Find(&logins).Error; err != nil {
		return nil, err
	}
	return logins, nil
}
