package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierhq/sewtrack-backend/pkg/config"
	"github.com/atelierhq/sewtrack-backend/pkg/db"
	"github.com/atelierhq/sewtrack-backend/pkg/db/models"
	"github.com/atelierhq/sewtrack-backend/pkg/enums"
	pkgerrors "github.com/atelierhq/sewtrack-backend/pkg/errors"
	"github.com/atelierhq/sewtrack-backend/pkg/security"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service is the director-facing staff and client administration surface.
// Accounts are deactivated, never hard-deleted, so the ledger keeps its
// staff references.
type Service interface {
	CreateStaff(ctx context.Context, input CreateStaffInput) (*StaffView, error)
	UpdateStaff(ctx context.Context, id uuid.UUID, input UpdateStaffInput) (*StaffView, error)
	DeactivateStaff(ctx context.Context, id uuid.UUID) error
	GetStaff(ctx context.Context, id uuid.UUID) (*StaffView, error)
	ListStaff(ctx context.Context) ([]StaffView, error)

	CreateClient(ctx context.Context, input CreateClientInput) (*ClientView, error)
	UpdateClient(ctx context.Context, id uuid.UUID, input UpdateClientInput) (*ClientView, error)
	DeactivateClient(ctx context.Context, id uuid.UUID) error
	GetClient(ctx context.Context, id uuid.UUID) (*ClientView, error)
	ListClients(ctx context.Context) ([]ClientView, error)
}

type service struct {
	repo        Repository
	tx          txRunner
	passwordCfg config.PasswordConfig
}

// NewService builds the administration service.
func NewService(repo Repository, tx txRunner, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, passwordCfg: passwordCfg}, nil
}

func (s *service) CreateStaff(ctx context.Context, input CreateStaffInput) (*StaffView, error) {
	username := strings.TrimSpace(strings.ToLower(input.Username))
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username required")
	}
	if strings.TrimSpace(input.FullName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name required")
	}
	if !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid staff role")
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "hash password")
	}

	var view StaffView
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		user := &models.User{
			Username:     username,
			PasswordHash: hash,
			Kind:         enums.UserKindStaff,
			IsActive:     true,
		}
		if _, err := repo.CreateUser(ctx, user); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
		}

		profile := &models.StaffProfile{
			UserID:   user.ID,
			FullName: strings.TrimSpace(input.FullName),
			Role:     input.Role,
		}
		if _, err := repo.CreateStaff(ctx, profile); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create staff profile")
		}

		profile.User = user
		view = StaffFromModel(profile)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *service) UpdateStaff(ctx context.Context, id uuid.UUID, input UpdateStaffInput) (*StaffView, error) {
	var view StaffView
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		profile, err := repo.FindStaffByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "staff profile not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load staff profile")
		}

		userUpdates, err := buildUserUpdates(input.Username, input.Password, s.passwordCfg)
		if err != nil {
			return err
		}
		if len(userUpdates) > 0 {
			if err := repo.UpdateUser(ctx, profile.UserID, userUpdates); err != nil {
				if db.IsUniqueViolation(err, "") {
					return pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
			}
		}

		profileUpdates := map[string]any{}
		if input.FullName != nil {
			if strings.TrimSpace(*input.FullName) == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "full name cannot be empty")
			}
			profileUpdates["full_name"] = strings.TrimSpace(*input.FullName)
		}
		if input.Role != nil {
			if !input.Role.IsValid() {
				return pkgerrors.New(pkgerrors.CodeValidation, "invalid staff role")
			}
			profileUpdates["role"] = *input.Role
		}
		if err := repo.UpdateStaff(ctx, profile.ID, profileUpdates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update staff profile")
		}

		updated, err := repo.FindStaffByID(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload staff profile")
		}
		view = StaffFromModel(updated)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *service) DeactivateStaff(ctx context.Context, id uuid.UUID) error {
	profile, err := s.repo.FindStaffByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "staff profile not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load staff profile")
	}
	if err := s.repo.SetUserActive(ctx, profile.UserID, false); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate user")
	}
	return nil
}

func (s *service) GetStaff(ctx context.Context, id uuid.UUID) (*StaffView, error) {
	profile, err := s.repo.FindStaffByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "staff profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load staff profile")
	}
	view := StaffFromModel(profile)
	return &view, nil
}

func (s *service) ListStaff(ctx context.Context) ([]StaffView, error) {
	profiles, err := s.repo.ListStaff(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list staff")
	}
	views := make([]StaffView, 0, len(profiles))
	for i := range profiles {
		views = append(views, StaffFromModel(&profiles[i]))
	}
	return views, nil
}

func (s *service) CreateClient(ctx context.Context, input CreateClientInput) (*ClientView, error) {
	username := strings.TrimSpace(strings.ToLower(input.Username))
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username required")
	}
	if strings.TrimSpace(input.FullName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name required")
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "hash password")
	}

	var view ClientView
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		user := &models.User{
			Username:     username,
			PasswordHash: hash,
			Kind:         enums.UserKindClient,
			IsActive:     true,
		}
		if _, err := repo.CreateUser(ctx, user); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
		}

		profile := &models.ClientProfile{
			UserID:   user.ID,
			FullName: strings.TrimSpace(input.FullName),
		}
		if _, err := repo.CreateClient(ctx, profile); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create client profile")
		}

		profile.User = user
		view = ClientFromModel(profile)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *service) UpdateClient(ctx context.Context, id uuid.UUID, input UpdateClientInput) (*ClientView, error) {
	var view ClientView
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		profile, err := repo.FindClientByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "client profile not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load client profile")
		}

		userUpdates, err := buildUserUpdates(input.Username, input.Password, s.passwordCfg)
		if err != nil {
			return err
		}
		if len(userUpdates) > 0 {
			if err := repo.UpdateUser(ctx, profile.UserID, userUpdates); err != nil {
				if db.IsUniqueViolation(err, "") {
					return pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
			}
		}

		if input.FullName != nil {
			if strings.TrimSpace(*input.FullName) == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "full name cannot be empty")
			}
			if err := repo.UpdateClient(ctx, profile.ID, map[string]any{"full_name": strings.TrimSpace(*input.FullName)}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update client profile")
			}
		}

		updated, err := repo.FindClientByID(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload client profile")
		}
		view = ClientFromModel(updated)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *service) DeactivateClient(ctx context.Context, id uuid.UUID) error {
	profile, err := s.repo.FindClientByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "client profile not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load client profile")
	}
	if err := s.repo.SetUserActive(ctx, profile.UserID, false); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate user")
	}
	return nil
}

func (s *service) GetClient(ctx context.Context, id uuid.UUID) (*ClientView, error) {
	profile, err := s.repo.FindClientByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "client profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load client profile")
	}
	view := ClientFromModel(profile)
	return &view, nil
}

func (s *service) ListClients(ctx context.Context) ([]ClientView, error) {
	profiles, err := s.repo.ListClients(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list clients")
	}
	views := make([]ClientView, 0, len(profiles))
	for i := range profiles {
		views = append(views, ClientFromModel(&profiles[i]))
	}
	return views, nil
}

func buildUserUpdates(username, password *string, cfg config.PasswordConfig) (map[string]any, error) {
	updates := map[string]any{}
	if username != nil {
		value := strings.TrimSpace(strings.ToLower(*username))
		if value == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "username cannot be empty")
		}
		updates["username"] = value
	}
	if password != nil {
		hash, err := security.HashPassword(*password, cfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "hash password")
		}
		updates["password_hash"] = hash
	}
	return updates, nil
}
