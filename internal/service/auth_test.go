package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"securevault/internal/errs"
)

func newAuth(t *testing.T) (*AuthServiceImpl, *fakeUsers, *fakeSessions, *fakeSettings, *fakeActivities) {
	t.Helper()
	users := &fakeUsers{}
	sessions := &fakeSessions{}
	settings := newFakeSettings()
	acts := &fakeActivities{}
	s := NewAuthService(users, sessions, settings, NewActivityService(acts, "test-agent"),
		[]byte("sign-key"), 0, nil)
	return s, users, sessions, settings, acts
}

func TestAuth_Register(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, users, sessions, _, acts := newAuth(t)

	if _, err := s.Register(ctx, "a@x.com", "secret1", "different"); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("want ErrValidation on mismatch, got %v", err)
	}
	if _, err := s.Register(ctx, "a@x.com", "short", "short"); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("want ErrValidation on short password, got %v", err)
	}
	if _, err := s.Register(ctx, "", "secret1", "secret1"); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("want ErrValidation on empty email, got %v", err)
	}

	sess, err := s.Register(ctx, "A@X.com", "secret1", "secret1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if sess.Email != "a@x.com" {
		t.Fatalf("email must be stored lowercase, got %q", sess.Email)
	}
	if sess.Name != "A" {
		t.Fatalf("name defaults to the email local part, got %q", sess.Name)
	}
	if !sessions.set {
		t.Fatalf("registration must open a session")
	}
	if len(users.users) != 1 || len(users.users[0].PwdHash) == 0 {
		t.Fatalf("registry entry missing or unhashed: %+v", users.users)
	}

	if _, err := s.Register(ctx, "a@X.COM", "secret2", "secret2"); !errors.Is(err, errs.ErrAlreadyExists) {
		t.Fatalf("want ErrAlreadyExists on duplicate email, got %v", err)
	}

	if len(acts.acts) != 0 {
		t.Fatalf("registration never logs activity, got %+v", acts.acts)
	}
}

func TestAuth_LoginScenarios(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _, _, _, acts := newAuth(t)

	if _, err := s.Register(ctx, "a@x.com", "secret1", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := s.Login(ctx, "nobody@x.com", "secret1"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if _, err := s.Login(ctx, "a@x.com", "wrong"); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
	if len(acts.acts) != 0 {
		t.Fatalf("auth failures must not reach the activity log")
	}

	sess, err := s.Login(ctx, "A@x.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.Email != "a@x.com" {
		t.Fatalf("session email: %q", sess.Email)
	}
	if len(acts.acts) != 1 || acts.acts[0].Action != "Login" {
		t.Fatalf("want one Login record prepended, got %+v", acts.acts)
	}
	if acts.acts[0].Details != "User logged in successfully" {
		t.Fatalf("details: %q", acts.acts[0].Details)
	}
}

func TestAuth_LogoutClearsAndLogs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _, sessions, _, acts := newAuth(t)

	if _, err := s.Register(ctx, "a@x.com", "secret1", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := s.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if sessions.set {
		t.Fatalf("logout must clear the session")
	}
	if len(acts.acts) != 1 || acts.acts[0].Action != "Logout" {
		t.Fatalf("want Logout record, got %+v", acts.acts)
	}
}

func TestAuth_ForgotPassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _, _, _, acts := newAuth(t)

	if _, err := s.Register(ctx, "a@x.com", "secret1", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := s.ForgotPassword(ctx, "nobody@x.com"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if err := s.ForgotPassword(ctx, "A@X.COM"); err != nil {
		t.Fatalf("forgot: %v", err)
	}
	if len(acts.acts) != 0 {
		t.Fatalf("the simulated reset flow logs nothing")
	}
}

func TestAuth_CurrentHonorsAutoLock(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _, sessions, settings, _ := newAuth(t)

	if _, err := s.Current(ctx); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("no session: want ErrUnauthorized, got %v", err)
	}

	if _, err := s.Register(ctx, "a@x.com", "secret1", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	u, err := s.Current(ctx)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if u.Email != "a@x.com" {
		t.Fatalf("current user: %+v", u)
	}

	// a zero-minute timeout expires the token immediately
	settings.cfg.SessionTimeout = 0
	if _, err := s.Login(ctx, "a@x.com", "secret1"); err != nil {
		t.Fatalf("login: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, err := s.Current(ctx); !errors.Is(err, errs.ErrSessionExpired) {
		t.Fatalf("want ErrSessionExpired, got %v", err)
	}
	if sessions.set {
		t.Fatalf("an expired session must be cleared")
	}

	// with auto-lock off the token is never checked
	settings.cfg.AutoLockEnabled = false
	if _, err := s.Login(ctx, "a@x.com", "secret1"); err != nil {
		t.Fatalf("login: %v", err)
	}
	sessions.token = "garbage"
	if _, err := s.Current(ctx); err != nil {
		t.Fatalf("auto-lock disabled must skip token checks: %v", err)
	}
}

func TestAuth_LatencyRespectsContext(t *testing.T) {
	t.Parallel()
	users := &fakeUsers{}
	s := NewAuthService(users, &fakeSessions{}, newFakeSettings(),
		NewActivityService(&fakeActivities{}, "test-agent"), []byte("k"), time.Minute, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := s.Login(ctx, "a@x.com", "p")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("want DeadlineExceeded, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatalf("cancelled latency must return promptly")
	}
}
