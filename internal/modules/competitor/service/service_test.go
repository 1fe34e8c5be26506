package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"racego.com/raceapi/internal/entity"
	"racego.com/raceapi/internal/modules/competitor/dto"
	"racego.com/raceapi/internal/modules/competitor/repository"
	"racego.com/raceapi/internal/testutil"
	"racego.com/raceapi/pkg/apperror"
)

type fakeSearch struct {
	indexed map[uint][]string
	deleted []uint
	hits    []uint
}

func (f *fakeSearch) IndexCompetitor(c *entity.Competitor, classes []string) error {
	f.indexed[c.ID] = classes
	return nil
}

func (f *fakeSearch) DeleteCompetitor(id uint) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeSearch) SearchCompetitors(raceID uint, query string, limit int64) ([]uint, error) {
	return f.hits, nil
}

var ctx = context.Background()

func setup(t *testing.T) (*gorm.DB, CompetitorService, *fakeSearch, uint) {
	db := testutil.NewDB(t)
	admin := testutil.CreateLogin(t, db, "admin")
	race := testutil.CreateRace(t, db, "Cup", admin)
	search := &fakeSearch{indexed: map[uint][]string{}}
	return db, NewCompetitorService(repository.NewCompetitorRepository(db), search), search, race.ID
}

func TestAddUserRoundTrip(t *testing.T) {
	_, svc, search, raceID := setup(t)

	res, err := svc.AddUser(ctx, raceID, dto.CompetitorRequest{
		FirstName: "Jane",
		LastName:  "Doe",
		Class:     []string{"A", "B"},
		Laps:      []string{"00:01:23.456"},
	})
	require.NoError(t, err)
	require.NotZero(t, res.ID)

	details, err := svc.GetUserDetails(ctx, raceID, res.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane", details.FirstName)
	assert.Equal(t, "Doe", details.LastName)
	assert.ElementsMatch(t, []string{"A", "B"}, details.Class)
	assert.Equal(t, []string{"00:01:23.456"}, details.Laps)
	assert.ElementsMatch(t, []string{"A", "B"}, search.indexed[res.ID])
}

func TestAddUserNormalizesInput(t *testing.T) {
	_, svc, _, raceID := setup(t)

	res, err := svc.AddUser(ctx, raceID, dto.CompetitorRequest{
		FirstName: "  <b>Jane</b> ",
		LastName:  "Doe",
		Class:     []string{"A", " A ", ""},
		Laps:      []string{"1:02:03.004"},
	})
	require.NoError(t, err)

	details, err := svc.GetUserDetails(ctx, raceID, res.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane", details.FirstName)
	assert.Equal(t, []string{"A"}, details.Class)
	assert.Equal(t, []string{"01:02:03.004"}, details.Laps)
}

func TestAddUserRejectsDuplicateName(t *testing.T) {
	db, svc, _, raceID := setup(t)
	testutil.CreateCompetitor(t, db, raceID, "Jane", "Doe")

	_, err := svc.AddUser(ctx, raceID, dto.CompetitorRequest{FirstName: "Jane", LastName: "Doe"})
	assert.ErrorIs(t, err, apperror.ErrAlreadyExists)
}

func TestAddUserRejectsBadInput(t *testing.T) {
	db, svc, _, raceID := setup(t)

	_, err := svc.AddUser(ctx, raceID, dto.CompetitorRequest{FirstName: "<i></i>", LastName: "Doe"})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = svc.AddUser(ctx, raceID, dto.CompetitorRequest{FirstName: "Jane", LastName: "Doe", Laps: []string{"1:30"}})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	assert.Zero(t, testutil.Count(t, db, &entity.Competitor{}, "race_id = ?", raceID))
}

func TestGetUsersCountsLaps(t *testing.T) {
	db, svc, _, raceID := setup(t)
	jane := testutil.CreateCompetitor(t, db, raceID, "Jane", "Doe")
	john := testutil.CreateCompetitor(t, db, raceID, "John", "Adams")
	testutil.CreateLaps(t, db, raceID, jane.ID, "00:01:00.000", "00:01:01.000")

	users, err := svc.GetUsers(ctx, raceID)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, dto.CompetitorSummary{ID: john.ID, FirstName: "John", LastName: "Adams", Laps: 0}, users[0])
	assert.Equal(t, dto.CompetitorSummary{ID: jane.ID, FirstName: "Jane", LastName: "Doe", Laps: 2}, users[1])
}

func TestGetUserDetailsScopedToRace(t *testing.T) {
	db, svc, _, raceID := setup(t)
	admin := testutil.CreateLogin(t, db, "other")
	other := testutil.CreateRace(t, db, "Other", admin)
	stranger := testutil.CreateCompetitor(t, db, other.ID, "Jane", "Doe")

	_, err := svc.GetUserDetails(ctx, raceID, stranger.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestSetUserDetailsReplacesSets(t *testing.T) {
	db, svc, _, raceID := setup(t)
	jane := testutil.CreateCompetitor(t, db, raceID, "Jane", "Doe")
	testutil.CreateClasses(t, db, raceID, jane.ID, "A")
	testutil.CreateLaps(t, db, raceID, jane.ID, "00:01:00.000")

	details, err := svc.SetUserDetails(ctx, raceID, jane.ID, dto.CompetitorRequest{
		FirstName: "Janet",
		LastName:  "Doe",
		Class:     []string{"B"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Janet", details.FirstName)
	assert.Equal(t, []string{"B"}, details.Class)
	assert.Empty(t, details.Laps)
}

func TestSetUserDetailsKeepsOwnName(t *testing.T) {
	db, svc, _, raceID := setup(t)
	jane := testutil.CreateCompetitor(t, db, raceID, "Jane", "Doe")
	testutil.CreateCompetitor(t, db, raceID, "John", "Doe")

	_, err := svc.SetUserDetails(ctx, raceID, jane.ID, dto.CompetitorRequest{FirstName: "Jane", LastName: "Doe"})
	require.NoError(t, err)

	_, err = svc.SetUserDetails(ctx, raceID, jane.ID, dto.CompetitorRequest{FirstName: "John", LastName: "Doe"})
	assert.ErrorIs(t, err, apperror.ErrAlreadyExists)

	_, err = svc.SetUserDetails(ctx, raceID, 999, dto.CompetitorRequest{FirstName: "X", LastName: "Y"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDeleteUserRemovesDependents(t *testing.T) {
	db, svc, search, raceID := setup(t)
	jane := testutil.CreateCompetitor(t, db, raceID, "Jane", "Doe")
	testutil.CreateClasses(t, db, raceID, jane.ID, "A")
	testutil.CreateLaps(t, db, raceID, jane.ID, "00:01:00.000")
	require.NoError(t, db.Create(&entity.Track{RaceID: raceID, UserIDRef: jane.ID}).Error)

	res, err := svc.DeleteUser(ctx, raceID, jane.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.AffectedRows)
	assert.Equal(t, []uint{jane.ID}, search.deleted)

	for _, model := range []interface{}{&entity.UserClass{}, &entity.Lap{}, &entity.Track{}} {
		assert.Zero(t, testutil.Count(t, db, model, "user_id_ref = ?", jane.ID))
	}

	_, err = svc.DeleteUser(ctx, raceID, jane.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestSearchUsersDropsForeignHits(t *testing.T) {
	db, svc, search, raceID := setup(t)
	jane := testutil.CreateCompetitor(t, db, raceID, "Jane", "Doe")
	john := testutil.CreateCompetitor(t, db, raceID, "John", "Doe")
	search.hits = []uint{john.ID, 12345, jane.ID}

	users, err := svc.SearchUsers(ctx, raceID, dto.SearchQuery{Query: "doe"})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, john.ID, users[0].ID)
	assert.Equal(t, jane.ID, users[1].ID)
}

func TestSearchUsersDisabled(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCompetitorService(repository.NewCompetitorRepository(db), nil)

	_, err := svc.SearchUsers(ctx, 1, dto.SearchQuery{Query: "doe"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
