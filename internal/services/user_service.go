package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rileyblackwell/Imagi-sub001/internal/models"
	"github.com/rileyblackwell/Imagi-sub001/internal/repositories"
	"github.com/rileyblackwell/Imagi-sub001/internal/utils"
)

const (
	accessTokenLifetime  = 15 * time.Minute
	refreshTokenLifetime = 30 * 24 * time.Hour
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidSession     = errors.New("invalid or expired session")
)

// UserService handles registration, login and the refresh-token session
// lifecycle. Sessions are persisted in Postgres; Redis mirrors them for fast
// revocation checks and degrades to logged warnings when unavailable.
type UserService struct {
	userRepo    *repositories.UserRepository
	sessionRepo *repositories.SessionRepository
	redisRepo   *repositories.RedisRepository
	logger      *logrus.Logger
}

func NewUserService(
	userRepo *repositories.UserRepository,
	sessionRepo *repositories.SessionRepository,
	redisRepo *repositories.RedisRepository,
	logger *logrus.Logger,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		redisRepo:   redisRepo,
		logger:      logger,
	}
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"-"`
}

// Register creates the user and logs them straight in. The first registered
// user becomes an admin.
func (s *UserService) Register(user *models.User) (*models.User, *TokenPair, error) {
	existing, err := s.userRepo.FindUserByEmail(user.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if existing != nil {
		return nil, nil, errors.New("email already registered")
	}

	hash, err := utils.Hash(user.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	user.Password = ""

	count, err := s.userRepo.CountUsers()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to count users: %w", err)
	}
	if count == 0 {
		user.Role = "admin"
	} else {
		user.Role = "user"
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	tokens, err := s.issueSession(user.ID)
	if err != nil {
		return nil, nil, err
	}

	return user, tokens, nil
}

func (s *UserService) Login(email, password string) (*models.User, *TokenPair, error) {
	user, err := s.userRepo.FindUserByEmail(email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, nil, ErrInvalidCredentials
	}

	if err := utils.VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	if err := s.userRepo.UpdateLastLogin(user.ID); err != nil {
		s.logger.WithError(err).Warn("failed to record last login")
	}

	tokens, err := s.issueSession(user.ID)
	if err != nil {
		return nil, nil, err
	}

	return user, tokens, nil
}

// issueSession mints an access/refresh pair and records the session row. The
// Redis mirror is advisory.
func (s *UserService) issueSession(userID uuid.UUID) (*TokenPair, error) {
	access, err := utils.GenerateJWT(userID, accessTokenLifetime, utils.AccessTokenSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refresh, err := utils.GenerateJWT(userID, refreshTokenLifetime, utils.RefreshTokenSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	session := &models.Session{
		UserID:       userID,
		RefreshToken: refresh,
		ExpiresAt:    time.Now().Add(refreshTokenLifetime),
	}
	if err := s.sessionRepo.Create(session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if err := s.redisRepo.StoreSession(context.Background(), session.ID.String(), userID.String()); err != nil {
		s.logger.WithError(err).Warn("failed to mirror session to redis")
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh rotates the pair: the presented refresh token's session is revoked
// and a new session is issued.
func (s *UserService) Refresh(refreshToken string) (*TokenPair, error) {
	session, err := s.validSession(refreshToken)
	if err != nil {
		return nil, err
	}

	if err := s.sessionRepo.Revoke(refreshToken); err != nil {
		return nil, fmt.Errorf("failed to revoke session: %w", err)
	}
	s.dropRedisSession(session)

	return s.issueSession(session.UserID)
}

func (s *UserService) Logout(refreshToken string) error {
	session, err := s.validSession(refreshToken)
	if err != nil {
		// Logging out an already-dead session is not an error worth surfacing.
		return nil
	}

	if err := s.sessionRepo.Revoke(refreshToken); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	s.dropRedisSession(session)

	return nil
}

func (s *UserService) validSession(refreshToken string) (*models.Session, error) {
	if _, err := utils.VerifyJWT(refreshToken, utils.RefreshTokenSecret); err != nil {
		return nil, ErrInvalidSession
	}

	session, err := s.sessionRepo.FindByToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	if session == nil || session.IsRevoked || time.Now().After(session.ExpiresAt) {
		return nil, ErrInvalidSession
	}

	blacklisted, err := s.redisRepo.IsBlacklisted(context.Background(), session.ID.String())
	if err != nil {
		s.logger.WithError(err).Warn("redis blacklist check failed, trusting postgres")
	} else if blacklisted {
		return nil, ErrInvalidSession
	}

	return session, nil
}

func (s *UserService) dropRedisSession(session *models.Session) {
	ctx := context.Background()
	if err := s.redisRepo.Blacklist(ctx, session.ID.String()); err != nil {
		s.logger.WithError(err).Warn("failed to blacklist session in redis")
	}
	if err := s.redisRepo.DeleteSession(ctx, session.ID.String()); err != nil {
		s.logger.WithError(err).Warn("failed to delete session mirror in redis")
	}
}

func (s *UserService) GetUser(userID string) (*models.User, error) {
	id, err := utils.ParseUUID(userID)
	if err != nil {
		return nil, errors.New("invalid user id")
	}

	user, err := s.userRepo.FindUserByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, errors.New("user not found")
	}
	return user, nil
}
