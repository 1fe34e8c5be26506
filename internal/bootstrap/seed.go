package bootstrap

import (
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"racego.com/raceapi/internal/entity"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Login{},
		&entity.Race{},
		&entity.RaceRelation{},
		&entity.Competitor{},
		&entity.UserClass{},
		&entity.Lap{},
		&entity.Track{},
	)
}

// SeedAdminLogin creates the development login "admin" unless it exists.
func SeedAdminLogin(db *gorm.DB, password string) error {
	var count int64
	if err := db.Model(&entity.Login{}).
		Where("username = ?", "admin").
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin login already exists, skipping seed")
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := db.Create(&entity.Login{Username: "admin", Password: string(hashed)}).Error; err != nil {
		return err
	}

	log.Println("Admin login seeded (username: admin)")
	return nil
}
