package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"securevault/internal/errs"
	"securevault/internal/model"
	"securevault/internal/repository"
)

type fakeCredentials struct {
	creds   []model.Credential
	hasData bool

	listErr error
	saveErr error
}

var _ repository.CredentialRepository = (*fakeCredentials)(nil)

func (f *fakeCredentials) List(context.Context) ([]model.Credential, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]model.Credential(nil), f.creds...), nil
}

func (f *fakeCredentials) Save(_ context.Context, creds []model.Credential) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.creds = append([]model.Credential(nil), creds...)
	f.hasData = true
	return nil
}

func (f *fakeCredentials) ExportJSON(context.Context) ([]byte, error) {
	if !f.hasData {
		return nil, fmt.Errorf("no credentials to export: %w", errs.ErrNotFound)
	}
	return json.Marshal(f.creds)
}

func (f *fakeCredentials) ImportJSON(_ context.Context, data []byte) error {
	var creds []model.Credential
	if err := json.Unmarshal(data, &creds); err != nil {
		return fmt.Errorf("import: %w", errs.ErrBadFormat)
	}
	f.creds = creds
	f.hasData = true
	return nil
}

type fakeActivities struct {
	acts []model.Activity

	listErr error
	saveErr error
}

var _ repository.ActivityRepository = (*fakeActivities)(nil)

func (f *fakeActivities) List(context.Context) ([]model.Activity, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]model.Activity(nil), f.acts...), nil
}

func (f *fakeActivities) Save(_ context.Context, acts []model.Activity) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.acts = append([]model.Activity(nil), acts...)
	return nil
}

type fakeUsers struct {
	users []model.User

	createErr error
	getErr    error
}

var _ repository.UserRepository = (*fakeUsers)(nil)

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	for i := range f.users {
		if strings.EqualFold(f.users[i].Email, u.Email) {
			return fmt.Errorf("user %s: %w", u.Email, errs.ErrAlreadyExists)
		}
	}
	f.users = append(f.users, *u)
	return nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for i := range f.users {
		if strings.EqualFold(f.users[i].Email, email) {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, errs.ErrNotFound)
}

type fakeSessions struct {
	user  model.SessionUser
	token string
	set   bool
}

var _ repository.SessionRepository = (*fakeSessions)(nil)

func (f *fakeSessions) Set(_ context.Context, u model.SessionUser, token string) error {
	f.user, f.token, f.set = u, token, true
	return nil
}

func (f *fakeSessions) Get(context.Context) (model.SessionUser, string, error) {
	if !f.set {
		return model.SessionUser{}, "", fmt.Errorf("no session: %w", errs.ErrUnauthorized)
	}
	return f.user, f.token, nil
}

func (f *fakeSessions) Clear(context.Context) error {
	f.user, f.token, f.set = model.SessionUser{}, "", false
	return nil
}

type fakeSettings struct {
	cfg    model.Settings
	getErr error
}

var _ repository.SettingsRepository = (*fakeSettings)(nil)

func newFakeSettings() *fakeSettings {
	return &fakeSettings{cfg: model.DefaultSettings()}
}

func (f *fakeSettings) Get(context.Context) (model.Settings, error) {
	if f.getErr != nil {
		return model.Settings{}, f.getErr
	}
	return f.cfg, nil
}

func (f *fakeSettings) Save(_ context.Context, s model.Settings) error {
	f.cfg = s
	return nil
}
