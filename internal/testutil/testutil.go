// Package testutil holds helpers shared by the repository, service and
// handler tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"racego.com/raceapi/internal/bootstrap"
	"racego.com/raceapi/internal/entity"
)

const Password = "password123"

// NewDB opens a private in-memory sqlite database with the full schema.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps the memory database alive and serialises access.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, bootstrap.Migrate(db))
	return db
}

func CreateLogin(t *testing.T, db *gorm.DB, username string) entity.Login {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)

	login := entity.Login{Username: username, Password: string(hashed)}
	require.NoError(t, db.Create(&login).Error)
	return login
}

// CreateRace inserts a race with the given managers; the first login is admin.
func CreateRace(t *testing.T, db *gorm.DB, name string, admin entity.Login, managers ...entity.Login) entity.Race {
	t.Helper()

	race := entity.Race{Name: name}
	require.NoError(t, db.Create(&race).Error)
	require.NoError(t, db.Create(&entity.RaceRelation{LoginID: admin.ID, RaceID: race.ID, IsAdmin: true}).Error)
	for _, m := range managers {
		require.NoError(t, db.Create(&entity.RaceRelation{LoginID: m.ID, RaceID: race.ID}).Error)
	}
	return race
}

func CreateCompetitor(t *testing.T, db *gorm.DB, raceID uint, first, last string) entity.Competitor {
	t.Helper()

	c := entity.Competitor{RaceID: raceID, FirstName: first, LastName: last}
	require.NoError(t, db.Create(&c).Error)
	return c
}

func CreateLaps(t *testing.T, db *gorm.DB, raceID, userID uint, times ...string) {
	t.Helper()

	for _, lt := range times {
		require.NoError(t, db.Create(&entity.Lap{RaceID: raceID, UserIDRef: userID, LapTime: lt}).Error)
	}
}

func CreateClasses(t *testing.T, db *gorm.DB, raceID, userID uint, classes ...string) {
	t.Helper()

	for _, cl := range classes {
		require.NoError(t, db.Create(&entity.UserClass{RaceID: raceID, UserIDRef: userID, Class: cl}).Error)
	}
}

func Count(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}
