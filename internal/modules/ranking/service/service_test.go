package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"racego.com/raceapi/internal/modules/ranking/dto"
	"racego.com/raceapi/internal/modules/ranking/repository"
	"racego.com/raceapi/internal/testutil"
	"racego.com/raceapi/pkg/apperror"
)

var ctx = context.Background()

func setup(t *testing.T) (*gorm.DB, RankingService, uint) {
	db := testutil.NewDB(t)
	admin := testutil.CreateLogin(t, db, "admin")
	race := testutil.CreateRace(t, db, "Cup", admin)
	return db, NewRankingService(repository.NewRankingRepository(db)), race.ID
}

func TestGetRankingDense(t *testing.T) {
	db, svc, raceID := setup(t)
	a := testutil.CreateCompetitor(t, db, raceID, "Ann", "Able")
	b := testutil.CreateCompetitor(t, db, raceID, "Ben", "Baker")
	c := testutil.CreateCompetitor(t, db, raceID, "Cid", "Cole")
	testutil.CreateCompetitor(t, db, raceID, "No", "Laps")
	testutil.CreateLaps(t, db, raceID, a.ID, "00:00:10.000", "00:00:14.000")
	testutil.CreateLaps(t, db, raceID, b.ID, "00:00:11.000", "00:00:10.000")
	testutil.CreateLaps(t, db, raceID, c.ID, "00:00:12.000")

	ranking, err := svc.GetRanking(ctx, raceID, "all")
	require.NoError(t, err)
	assert.Equal(t, []dto.RankingEntry{
		{ID: a.ID, FirstName: "Ann", LastName: "Able", BestTime: "00:00:10.000", Rank: 1},
		{ID: b.ID, FirstName: "Ben", LastName: "Baker", BestTime: "00:00:10.000", Rank: 1},
		{ID: c.ID, FirstName: "Cid", LastName: "Cole", BestTime: "00:00:12.000", Rank: 2},
	}, ranking)
}

func TestGetRankingByClass(t *testing.T) {
	db, svc, raceID := setup(t)
	a := testutil.CreateCompetitor(t, db, raceID, "Ann", "Able")
	b := testutil.CreateCompetitor(t, db, raceID, "Ben", "Baker")
	testutil.CreateClasses(t, db, raceID, a.ID, "Junior")
	testutil.CreateClasses(t, db, raceID, b.ID, "Senior")
	testutil.CreateLaps(t, db, raceID, a.ID, "00:00:20.000")
	testutil.CreateLaps(t, db, raceID, b.ID, "00:00:10.000")

	ranking, err := svc.GetRanking(ctx, raceID, "Junior")
	require.NoError(t, err)
	require.Len(t, ranking, 1)
	assert.Equal(t, a.ID, ranking[0].ID)
	assert.Equal(t, 1, ranking[0].Rank)

	ranking, err = svc.GetRanking(ctx, raceID, "Nobody")
	require.NoError(t, err)
	assert.Empty(t, ranking)
}

func TestGetRankingIgnoresOtherRaces(t *testing.T) {
	db, svc, raceID := setup(t)
	other := testutil.CreateRace(t, db, "Other", testutil.CreateLogin(t, db, "bob"))
	x := testutil.CreateCompetitor(t, db, other.ID, "X", "Y")
	testutil.CreateLaps(t, db, other.ID, x.ID, "00:00:01.000")

	ranking, err := svc.GetRanking(ctx, raceID, "all")
	require.NoError(t, err)
	assert.Empty(t, ranking)
}

func TestGetRankingEmptyClass(t *testing.T) {
	_, svc, raceID := setup(t)

	_, err := svc.GetRanking(ctx, raceID, "  ")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestGetCategories(t *testing.T) {
	db, svc, raceID := setup(t)
	a := testutil.CreateCompetitor(t, db, raceID, "Ann", "Able")
	b := testutil.CreateCompetitor(t, db, raceID, "Ben", "Baker")
	testutil.CreateClasses(t, db, raceID, a.ID, "Senior", "Junior")
	testutil.CreateClasses(t, db, raceID, b.ID, "Junior")

	categories, err := svc.GetCategories(ctx, raceID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Junior", "Senior"}, categories)
}
