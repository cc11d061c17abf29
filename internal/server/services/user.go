package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/mindcare/internal/common"
	"github.com/dmitrijs2005/mindcare/internal/cryptox"
	"github.com/dmitrijs2005/mindcare/internal/dbx"
	"github.com/dmitrijs2005/mindcare/internal/server/auth"
	"github.com/dmitrijs2005/mindcare/internal/server/config"
	"github.com/dmitrijs2005/mindcare/internal/server/models"
	"github.com/dmitrijs2005/mindcare/internal/server/repositories/repomanager"
)

var hashPassword = cryptox.HashPassword

// UserService provides identity and session operations:
// - Register / FindByEmail / GetByID: the credential store
// - Verify: check a password against a stored credential
// - Login: verify credentials and mint tokens
// - RefreshToken: rotate refresh tokens and mint new access tokens
// - Logout: revoke a refresh token
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	timeout                      storeTimeout
	now                          func() time.Time
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		timeout:                      newStoreTimeout(cfg.DatabaseTimeout),
		now:                          time.Now,
	}
}

// Register stores a new user with a freshly salted credential. A taken
// email yields common.ErrorAlreadyExists and no row is written.
func (s *UserService) Register(ctx context.Context, name, email, phone, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = common.NormalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", common.ErrorValidation)
	}

	credential, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		Phone:        strings.TrimSpace(phone),
		PasswordHash: credential,
		CreatedAt:    s.now().UTC(),
	}

	ctx, cancel := s.timeout.ctx(ctx)
	defer cancel()

	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// FindByEmail looks a user up by normalized email. Absence is
// common.ErrorNotFound.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := s.timeout.ctx(ctx)
	defer cancel()

	return s.repomanager.Users(s.db).GetUserByEmail(ctx, common.NormalizeEmail(email))
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	ctx, cancel := s.timeout.ctx(ctx)
	defer cancel()

	return s.repomanager.Users(s.db).GetUserByID(ctx, id)
}

// Verify reports whether password matches the stored credential. A stored
// value that is not a well-formed credential yields
// common.ErrMalformedCredential.
func (s *UserService) Verify(stored, password string) (bool, error) {
	return cryptox.VerifyPassword(stored, password)
}

// Login verifies the email/password pair and, on success, returns a new
// TokenPair. Unknown emails and wrong passwords are both
// common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.TokenPair, error) {
	user, err := s.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	ok, err := s.Verify(user.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", user.ID, err)
	}
	if !ok {
		return nil, common.ErrorUnauthorized
	}

	ctx, cancel := s.timeout.ctx(ctx)
	defer cancel()

	return s.generateTokenPair(ctx, user.ID, s.db)
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	ctx, cancel := s.timeout.ctx(ctx)
	defer cancel()

	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(s.now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *models.TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.RefreshTokens(tx)
		if err := repoTx.Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, token.UserID, tx)
		return genErr
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout revokes refreshToken. Unknown tokens are ignored.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	ctx, cancel := s.timeout.ctx(ctx)
	defer cancel()

	if err := s.repomanager.RefreshTokens(s.db).Delete(ctx, refreshToken); err != nil {
		return fmt.Errorf("error deleting refresh token: %w", err)
	}
	return nil
}

// UserIDFromAccessToken validates an access token minted by this service.
func (s *UserService) UserIDFromAccessToken(token string) (int64, error) {
	return auth.GetUserIDFromToken(token, s.jwtSecret)
}

// --- helpers below ---

func (s *UserService) generateAccessToken(userID int64) (string, error) {
	return auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *UserService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *UserService) generateTokenPair(ctx context.Context, userID int64, tx dbx.DBTX) (*models.TokenPair, error) {
	access, err := s.generateAccessToken(userID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}
	refreshRepo := s.repomanager.RefreshTokens(tx)
	if err := refreshRepo.Create(ctx, userID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
