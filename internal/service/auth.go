package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/task_manager/internal/config"
	"github.com/Skotchmaster/task_manager/internal/events"
	"github.com/Skotchmaster/task_manager/internal/hash"
	"github.com/Skotchmaster/task_manager/internal/logging"
	"github.com/Skotchmaster/task_manager/internal/models"
	"github.com/Skotchmaster/task_manager/internal/repo"
	"github.com/Skotchmaster/task_manager/internal/tokens"
)

const (
	msgIncorrectCredentials = "Incorrect email or password"
	msgPleaseAuthenticate   = "Please authenticate"
	msgEmailTaken           = "Email already taken"
)

var errSubjectMismatch = errors.New("token subject does not match its owner")

type AuthRepo interface {
	CreateUser(ctx context.Context, u *models.User) error
	EmailTaken(ctx context.Context, email string) (bool, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	SaveToken(ctx context.Context, token string, userID uuid.UUID, userName string, expiresAt time.Time, typ tokens.Type, blacklisted bool) (*models.RefreshToken, error)
	FindActiveToken(ctx context.Context, token string, typ tokens.Type) (*models.RefreshToken, error)
	InvalidateToken(ctx context.Context, rec *models.RefreshToken) error
	BlacklistToken(ctx context.Context, token string, typ tokens.Type) error
}

type AuthService struct {
	Repo   AuthRepo
	Codec  *tokens.Codec
	JWT    config.JWT
	Events events.Publisher
	Now    func() time.Time
}

type TokenInfo struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type AuthTokens struct {
	Access  TokenInfo `json:"access"`
	Refresh TokenInfo `json:"refresh"`
}

type AuthResult struct {
	User   *models.User `json:"user"`
	Tokens *AuthTokens  `json:"tokens"`
}

func NewAuthService(r AuthRepo, codec *tokens.Codec, jwtCfg config.JWT, pub events.Publisher) *AuthService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &AuthService{Repo: r, Codec: codec, JWT: jwtCfg, Events: pub, Now: time.Now}
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	email = NormalizeEmail(email)
	l := logging.FromContext(ctx).With("svc", "auth.register", "email", email)

	taken, err := s.Repo.EmailTaken(ctx, email)
	if err != nil {
		l.Error("register_failed", "status", 500, "reason", "email lookup", "error", err)
		return nil, fmt.Errorf("email lookup: %w", err)
	}
	if taken {
		l.Warn("register_failed", "status", 409, "reason", "email already taken")
		return nil, Conflict(msgEmailTaken)
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_failed", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: pwHash,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		// two registrations racing past EmailTaken end up here
		if errors.Is(err, repo.ErrDuplicate) {
			l.Warn("register_failed", "status", 409, "reason", "email already taken")
			return nil, Conflict(msgEmailTaken)
		}
		l.Error("register_failed", "status", 500, "reason", "create user", "error", err)
		return nil, fmt.Errorf("create user: %w", err)
	}

	pair, err := s.IssueTokens(ctx, user)
	if err != nil {
		l.Error("register_failed", "status", 500, "reason", "issue tokens", "error", err)
		return nil, err
	}

	s.publish(ctx, user.ID.String(), events.New(events.UserRegistered, map[string]any{
		"user_id": user.ID.String(),
		"email":   user.Email,
	}))
	l.Info("user_registered", "user_id", user.ID.String())

	return &AuthResult{User: user, Tokens: pair}, nil
}

// Login fails with the same error for an unknown email and for a wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = NormalizeEmail(email)
	l := logging.FromContext(ctx).With("svc", "auth.login", "email", email)

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "unknown email")
			return nil, Unauthenticated(msgIncorrectCredentials)
		}
		l.Error("login_failed", "status", 500, "reason", "user lookup", "error", err)
		return nil, fmt.Errorf("user lookup: %w", err)
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "wrong password")
		return nil, Unauthenticated(msgIncorrectCredentials)
	}

	pair, err := s.IssueTokens(ctx, user)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "issue tokens", "error", err)
		return nil, err
	}

	s.publish(ctx, user.ID.String(), events.New(events.UserLoggedIn, map[string]any{
		"user_id": user.ID.String(),
	}))

	return &AuthResult{User: user, Tokens: pair}, nil
}

// Refresh rotates a refresh token. The presented token can be used once,
// and every failure is reported as the same authentication error.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthTokens, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	pair, err := s.rotate(ctx, refreshToken)
	if err != nil {
		l.Warn("refresh_failed", "status", 401, "error", err)
		return nil, Unauthenticated(msgPleaseAuthenticate)
	}
	return pair, nil
}

func (s *AuthService) rotate(ctx context.Context, raw string) (*AuthTokens, error) {
	claims, err := s.Codec.Decode(raw, tokens.TypeRefresh)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	rec, err := s.Repo.FindActiveToken(ctx, raw, tokens.TypeRefresh)
	if err != nil {
		return nil, fmt.Errorf("find token: %w", err)
	}
	if rec.UserID.String() != claims.Subject {
		return nil, errSubjectMismatch
	}
	user, err := s.Repo.GetUserByID(ctx, rec.UserID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if err := s.Repo.InvalidateToken(ctx, rec); err != nil {
		return nil, fmt.Errorf("invalidate token: %w", err)
	}
	return s.IssueTokens(ctx, user)
}

// Logout blacklists a refresh token so it can no longer be rotated.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	l := logging.FromContext(ctx).With("svc", "auth.logout")

	if err := s.Repo.BlacklistToken(ctx, refreshToken, tokens.TypeRefresh); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("logout_failed", "status", 404, "reason", "token not found")
			return NotFound("Not found")
		}
		l.Error("logout_failed", "status", 500, "error", err)
		return fmt.Errorf("blacklist token: %w", err)
	}
	return nil
}

// IssueTokens signs a fresh access/refresh pair for user and stores the refresh token.
func (s *AuthService) IssueTokens(ctx context.Context, user *models.User) (*AuthTokens, error) {
	now := s.now().UTC()
	accessExp := now.Add(s.JWT.AccessTTL)
	refreshExp := now.Add(s.JWT.RefreshTTL)
	sub := user.ID.String()

	access, err := s.Codec.Issue(sub, user.Name, accessExp, tokens.TypeAccess)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.Codec.Issue(sub, user.Name, refreshExp, tokens.TypeRefresh)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}
	if _, err := s.Repo.SaveToken(ctx, refresh, user.ID, user.Name, refreshExp, tokens.TypeRefresh, false); err != nil {
		return nil, fmt.Errorf("save refresh token: %w", err)
	}

	return &AuthTokens{
		Access:  TokenInfo{Token: access, Expires: accessExp},
		Refresh: TokenInfo{Token: refresh, Expires: refreshExp},
	}, nil
}

func (s *AuthService) publish(ctx context.Context, key string, evt events.Event) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, key, evt); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "type", evt.Type, "error", err)
	}
}
