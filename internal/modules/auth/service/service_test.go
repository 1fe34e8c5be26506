package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"racego.com/raceapi/internal/modules/auth/dto"
	"racego.com/raceapi/internal/modules/auth/repository"
	"racego.com/raceapi/internal/testutil"
	"racego.com/raceapi/pkg/apperror"
	"racego.com/raceapi/pkg/ratelimiter"
)

func newService(t *testing.T) (AuthService, uint) {
	db := testutil.NewDB(t)
	login := testutil.CreateLogin(t, db, "alice")
	svc := NewAuthService(repository.NewLoginRepository(db), ratelimiter.New(nil, time.Second), "secret", time.Hour)
	return svc, login.ID
}

func TestLoginIssuesToken(t *testing.T) {
	svc, id := newService(t)

	res, err := svc.Login(context.Background(), dto.LoginInput{Username: "alice", Password: testutil.Password})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", res.TokenType)
	assert.Equal(t, id, res.User.ID)

	parsed, err := svc.ParseToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Login(context.Background(), dto.LoginInput{Username: "alice", Password: "wrong-password"})
	assert.ErrorIs(t, err, apperror.ErrAuthFailed)

	_, err = svc.Login(context.Background(), dto.LoginInput{Username: "bob", Password: testutil.Password})
	assert.ErrorIs(t, err, apperror.ErrAuthFailed)
}

func TestParseTokenRejectsForeignSignature(t *testing.T) {
	svc, _ := newService(t)
	other := NewAuthService(nil, nil, "other-secret", time.Hour).(*authService)

	res, err := svc.Login(context.Background(), dto.LoginInput{Username: "alice", Password: testutil.Password})
	require.NoError(t, err)

	_, err = other.ParseToken(res.AccessToken)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	_, err = svc.ParseToken("not-a-token")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestMe(t *testing.T) {
	svc, id := newService(t)

	login, err := svc.Me(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "alice", login.Username)

	_, err = svc.Me(context.Background(), id+100)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}
