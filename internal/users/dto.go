package users

import (
	"github.com/google/uuid"

	"github.com/atelierhq/sewtrack-backend/pkg/db/models"
	"github.com/atelierhq/sewtrack-backend/pkg/enums"
)

// CreateStaffInput opens a staff account plus its station profile.
type CreateStaffInput struct {
	Username string
	Password string
	FullName string
	Role     enums.StaffRole
}

// UpdateStaffInput carries the optional fields of a staff update.
type UpdateStaffInput struct {
	Username *string
	Password *string
	FullName *string
	Role     *enums.StaffRole
}

// CreateClientInput opens a client account plus its profile.
type CreateClientInput struct {
	Username string
	Password string
	FullName string
}

// UpdateClientInput carries the optional fields of a client update.
type UpdateClientInput struct {
	Username *string
	Password *string
	FullName *string
}

// StaffView is the API shape of a staff profile.
type StaffView struct {
	ID       uuid.UUID       `json:"id"`
	Username string          `json:"username"`
	FullName string          `json:"full_name"`
	Role     enums.StaffRole `json:"role"`
	IsActive bool            `json:"is_active"`
}

// ClientView is the API shape of a client profile.
type ClientView struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	FullName string    `json:"full_name"`
	IsActive bool      `json:"is_active"`
}

// StaffFromModel converts a profile row with its preloaded user.
func StaffFromModel(profile *models.StaffProfile) StaffView {
	view := StaffView{
		ID:       profile.ID,
		FullName: profile.FullName,
		Role:     profile.Role,
	}
	if profile.User != nil {
		view.Username = profile.User.Username
		view.IsActive = profile.User.IsActive
	}
	return view
}

// ClientFromModel converts a profile row with its preloaded user.
func ClientFromModel(profile *models.ClientProfile) ClientView {
	view := ClientView{
		ID:       profile.ID,
		FullName: profile.FullName,
	}
	if profile.User != nil {
		view.Username = profile.User.Username
		view.IsActive = profile.User.IsActive
	}
	return view
}
