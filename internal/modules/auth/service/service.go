package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"racego.com/raceapi/internal/entity"
	"racego.com/raceapi/internal/modules/auth/dto"
	"racego.com/raceapi/internal/modules/auth/repository"
	"racego.com/raceapi/pkg/apperror"
	"racego.com/raceapi/pkg/ratelimiter"
)

const actionLogin = "login"

type AuthService interface {
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
	Me(ctx context.Context, loginID uint) (*entity.Login, error)
	ParseToken(tokenString string) (uint, error)
}

type authService struct {
	repo     repository.LoginRepository
	limiter  *ratelimiter.Limiter
	secret   string
	tokenTTL time.Duration
}

func NewAuthService(repo repository.LoginRepository, limiter *ratelimiter.Limiter, secret string, tokenTTL time.Duration) AuthService {
	return &authService{
		repo:     repo,
		limiter:  limiter,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	// Every attempt takes the lock; only a successful login releases it early.
	if err := s.limiter.Check(ctx, actionLogin, input.Username); err != nil {
		return nil, err
	}

	login, err := s.repo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.ErrAuthFailed, "invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(login.Password), []byte(input.Password)); err != nil {
		return nil, apperror.New(apperror.ErrAuthFailed, "invalid credentials")
	}

	_ = s.limiter.Clear(ctx, actionLogin, input.Username)

	token, expiresAt, err := s.generateToken(login)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresAt,
		User:        login,
	}, nil
}

func (s *authService) Me(ctx context.Context, loginID uint) (*entity.Login, error) {
	login, err := s.repo.FindByID(ctx, loginID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("login not found: %w", apperror.ErrUnauthorized)
		}
		return nil, err
	}
	return login, nil
}

func (s *authService) ParseToken(tokenString string) (uint, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil || !token.Valid {
		return 0, apperror.New(apperror.ErrUnauthorized, "invalid or expired token")
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return 0, apperror.New(apperror.ErrUnauthorized, "invalid token claims")
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.New(apperror.ErrUnauthorized, "invalid token subject")
	}
	return uint(id), nil
}

func (s *authService) generateToken(login *entity.Login) (string, int64, error) {
	expiresAt := time.Now().Add(s.tokenTTL)

	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(login.ID), 10),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", 0, err
	}

	return signed, expiresAt.Unix(), nil
}
