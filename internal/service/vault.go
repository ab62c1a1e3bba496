package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"securevault/internal/errs"
	"securevault/internal/model"
	"securevault/internal/repository"
)

// VaultService provides CRUD over the credential collection. Every mutation
// rewrites the whole collection and appends one activity record; the two
// writes are independent, so a failed activity append never rolls back the
// credential write.
type VaultService interface {
	// List returns the full collection in insertion order.
	List(ctx context.Context) ([]model.Credential, error)
	// Upsert replaces the record matching c.ID when isEdit, otherwise appends a
	// new record with fresh id and timestamps. Returns the updated collection.
	Upsert(ctx context.Context, c model.Credential, isEdit bool) ([]model.Credential, error)
	// Remove filters out the record with the given id; removing an unknown id
	// returns the collection unchanged.
	Remove(ctx context.Context, id string) ([]model.Credential, error)
	// Search filters by case-insensitive substring on site name or username,
	// AND by category ("" or "all" matches every category).
	Search(ctx context.Context, term, category string) ([]model.Credential, error)
}

type VaultServiceImpl struct {
	repo     repository.CredentialRepository
	activity ActivityService
	log      *zap.Logger
}

// NewVaultService constructs VaultService.
func NewVaultService(repo repository.CredentialRepository, activity ActivityService, log *zap.Logger) *VaultServiceImpl {
	if log == nil {
		log = zap.NewNop()
	}
	return &VaultServiceImpl{repo: repo, activity: activity, log: log}
}

// List loads the collection.
func (s *VaultServiceImpl) List(ctx context.Context) ([]model.Credential, error) {
	return s.repo.List(ctx)
}

// Upsert validates the record, persists the updated collection, and logs the
// action. Edits keep the original id and creation time; only updatedAt moves.
func (s *VaultServiceImpl) Upsert(ctx context.Context, c model.Credential, isEdit bool) ([]model.Credential, error) {
	if c.SiteName == "" || c.Username == "" || c.Password == "" {
		return nil, fmt.Errorf("site name, username and password are required: %w", errs.ErrValidation)
	}
	if !model.ValidCategory(c.Category) {
		return nil, fmt.Errorf("unknown category %q: %w", c.Category, errs.ErrValidation)
	}

	creds, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if isEdit {
		for i := range creds {
			if creds[i].ID == c.ID {
				c.CreatedAt = creds[i].CreatedAt
				c.UpdatedAt = now
				creds[i] = c
				break
			}
		}
	} else {
		// timestamp ids collide inside one millisecond; bump until free
		id := model.NewID(now)
		for hasID(creds, id) {
			now = now.Add(time.Millisecond)
			id = model.NewID(now)
		}
		c.ID = id
		c.CreatedAt = now
		c.UpdatedAt = now
		creds = append(creds, c)
	}

	if err := s.repo.Save(ctx, creds); err != nil {
		return nil, err
	}

	action, detail := "Add Credential", "Added"
	if isEdit {
		action, detail = "Update Credential", "Updated"
	}
	s.logActivity(ctx, action, fmt.Sprintf("%s credential for %s", detail, c.SiteName))
	return creds, nil
}

// Remove deletes by id. An unknown id is a silent no-op on the collection, but
// the delete action is still logged, same as it always was.
func (s *VaultServiceImpl) Remove(ctx context.Context, id string) ([]model.Credential, error) {
	creds, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	kept := creds[:0]
	for _, c := range creds {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	if err := s.repo.Save(ctx, kept); err != nil {
		return nil, err
	}
	s.logActivity(ctx, "Delete Credential", "Deleted a credential from vault")
	return kept, nil
}

// Search composes the substring and category filters with logical AND.
func (s *VaultServiceImpl) Search(ctx context.Context, term, category string) ([]model.Credential, error) {
	creds, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Credential, 0, len(creds))
	for _, c := range creds {
		matchesTerm := term == "" ||
			containsFold(c.SiteName, term) || containsFold(c.Username, term)
		matchesCategory := category == "" || category == "all" || c.Category == category
		if matchesTerm && matchesCategory {
			out = append(out, c)
		}
	}
	return out, nil
}

func hasID(creds []model.Credential, id string) bool {
	for i := range creds {
		if creds[i].ID == id {
			return true
		}
	}
	return false
}

// logActivity appends best-effort; storage writes here are not transactional.
func (s *VaultServiceImpl) logActivity(ctx context.Context, action, details string) {
	if err := s.activity.Append(ctx, action, details); err != nil {
		s.log.Warn("activity append failed",
			zap.String("action", action),
			zap.Error(err),
		)
	}
}
