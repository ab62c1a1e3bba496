package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	pkgcrypto "securevault/internal/crypto"
	"securevault/internal/errs"
	"securevault/internal/model"
	"securevault/internal/repository"
)

// AuthService manages the registry and the single active session. Every
// operation waits out a fixed simulated network delay first; there has never
// been a real backend behind this flow.
type AuthService interface {
	// Register creates a registry entry and opens a session for it.
	Register(ctx context.Context, email, password, confirm string) (model.SessionUser, error)
	// Login authenticates against the registry, opens a session, and logs a
	// "Login" event. Failures are never written to the activity log.
	Login(ctx context.Context, email, password string) (model.SessionUser, error)
	// Logout clears the session and logs a "Logout" event.
	Logout(ctx context.Context) error
	// ForgotPassword checks the email exists and reports success without
	// resetting anything; the flow is simulated end to end.
	ForgotPassword(ctx context.Context, email string) error
	// Current returns the active session user, enforcing the auto-lock timeout
	// when it is enabled in settings.
	Current(ctx context.Context) (model.SessionUser, error)
}

type AuthServiceImpl struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	settings repository.SettingsRepository
	activity ActivityService
	signKey  []byte
	latency  time.Duration
	log      *zap.Logger
}

// NewAuthService constructs AuthService. latency is the simulated round-trip
// delay applied to register/login/forgot; pass 0 to disable.
func NewAuthService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	settings repository.SettingsRepository,
	activity ActivityService,
	signKey []byte,
	latency time.Duration,
	log *zap.Logger,
) *AuthServiceImpl {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthServiceImpl{
		users:    users,
		sessions: sessions,
		settings: settings,
		activity: activity,
		signKey:  signKey,
		latency:  latency,
		log:      log,
	}
}

// simulateLatency stands in for a network round trip. It respects ctx but has
// no retry or timeout policy of its own.
func (s *AuthServiceImpl) simulateLatency(ctx context.Context) error {
	if s.latency <= 0 {
		return nil
	}
	t := time.NewTimer(s.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Register validates input, creates the registry entry, and opens a session.
// The display name defaults to the local part of the email.
func (s *AuthServiceImpl) Register(ctx context.Context, email, password, confirm string) (model.SessionUser, error) {
	if email == "" {
		return model.SessionUser{}, fmt.Errorf("email is required: %w", errs.ErrValidation)
	}
	if password != confirm {
		return model.SessionUser{}, fmt.Errorf("passwords do not match: %w", errs.ErrValidation)
	}
	if len(password) < 6 {
		return model.SessionUser{}, fmt.Errorf("password must be at least 6 characters long: %w", errs.ErrValidation)
	}
	if err := s.simulateLatency(ctx); err != nil {
		return model.SessionUser{}, err
	}

	salt, err := pkgcrypto.RandBytes(pkgcrypto.SaltLen)
	if err != nil {
		return model.SessionUser{}, err
	}
	now := time.Now().UTC()
	u := &model.User{
		ID:        model.NewID(now),
		Email:     strings.ToLower(email),
		PwdHash:   pkgcrypto.HashPassword([]byte(password), salt),
		Salt:      salt,
		Name:      localPart(email),
		CreatedAt: now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return model.SessionUser{}, err
	}

	sess := model.SessionFromUser(u)
	if err := s.openSession(ctx, sess); err != nil {
		return model.SessionUser{}, err
	}
	return sess, nil
}

// Login authenticates and opens a session.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (model.SessionUser, error) {
	if err := s.simulateLatency(ctx); err != nil {
		return model.SessionUser{}, err
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return model.SessionUser{}, err
	}
	if !pkgcrypto.VerifyPassword([]byte(password), u.Salt, u.PwdHash) {
		return model.SessionUser{}, fmt.Errorf("invalid password: %w", errs.ErrUnauthorized)
	}

	sess := model.SessionFromUser(u)
	if err := s.openSession(ctx, sess); err != nil {
		return model.SessionUser{}, err
	}
	s.logActivity(ctx, "Login", "User logged in successfully")
	return sess, nil
}

// Logout clears the session. Clearing an absent session still logs the event.
func (s *AuthServiceImpl) Logout(ctx context.Context) error {
	if err := s.sessions.Clear(ctx); err != nil {
		return err
	}
	s.logActivity(ctx, "Logout", "User logged out")
	return nil
}

// ForgotPassword simulates a reset-link flow: the only real check is that the
// account exists. No email is sent and no state changes.
func (s *AuthServiceImpl) ForgotPassword(ctx context.Context, email string) error {
	if err := s.simulateLatency(ctx); err != nil {
		return err
	}
	_, err := s.users.GetByEmail(ctx, email)
	return err
}

// Current returns the session user. With auto-lock enabled the stored token
// must still verify; an expired or unreadable token clears the session.
func (s *AuthServiceImpl) Current(ctx context.Context) (model.SessionUser, error) {
	u, token, err := s.sessions.Get(ctx)
	if err != nil {
		return model.SessionUser{}, err
	}
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return model.SessionUser{}, err
	}
	if !cfg.AutoLockEnabled {
		return u, nil
	}

	var claims jwt.RegisteredClaims
	_, err = jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return s.signKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		_ = s.sessions.Clear(ctx)
		return model.SessionUser{}, fmt.Errorf("%w: %w", errs.ErrSessionExpired, err)
	}
	if claims.Subject != u.ID {
		_ = s.sessions.Clear(ctx)
		return model.SessionUser{}, fmt.Errorf("token subject mismatch: %w", errs.ErrSessionExpired)
	}
	return u, nil
}

// openSession issues a token with TTL taken from the configured session
// timeout and stores both the user and the token.
func (s *AuthServiceImpl) openSession(ctx context.Context, u model.SessionUser) error {
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}
	token, err := s.issueToken(u.ID, time.Duration(cfg.SessionTimeout)*time.Minute)
	if err != nil {
		return err
	}
	return s.sessions.Set(ctx, u, token)
}

// issueToken creates a signed HS256 JWT for the given subject.
func (s *AuthServiceImpl) issueToken(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(s.signKey)
}

func (s *AuthServiceImpl) logActivity(ctx context.Context, action, details string) {
	if err := s.activity.Append(ctx, action, details); err != nil {
		s.log.Warn("activity append failed",
			zap.String("action", action),
			zap.Error(err),
		)
	}
}

// localPart returns everything before the '@'.
func localPart(email string) string {
	if i := strings.IndexByte(email, '@'); i >= 0 {
		return email[:i]
	}
	return email
}
