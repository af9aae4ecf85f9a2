package users

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierhq/sewtrack-backend/pkg/db/models"
)

// Repository defines persistence operations for accounts and profiles.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, updates map[string]any) error
	SetUserActive(ctx context.Context, id uuid.UUID, active bool) error

	CreateStaff(ctx context.Context, profile *models.StaffProfile) (*models.StaffProfile, error)
	FindStaffByID(ctx context.Context, id uuid.UUID) (*models.StaffProfile, error)
	FindStaffByUserID(ctx context.Context, userID uuid.UUID) (*models.StaffProfile, error)
	ListStaff(ctx context.Context) ([]models.StaffProfile, error)
	UpdateStaff(ctx context.Context, id uuid.UUID, updates map[string]any) error

	CreateClient(ctx context.Context, profile *models.ClientProfile) (*models.ClientProfile, error)
	FindClientByID(ctx context.Context, id uuid.UUID) (*models.ClientProfile, error)
	ListClients(ctx context.Context) ([]models.ClientProfile, error)
	UpdateClient(ctx context.Context, id uuid.UUID, updates map[string]any) error
}
