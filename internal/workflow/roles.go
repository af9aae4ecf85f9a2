package workflow

import "github.com/atelierhq/sewtrack-backend/pkg/enums"

// Action names one workflow operation for role gating and metrics labels.
type Action string

const (
	ActionReceive      Action = "receive"
	ActionInspection   Action = "inspection"
	ActionPacking      Action = "packing"
	ActionMarking      Action = "marking"
	ActionMarkingCodes Action = "marking_codes"
)

var actionRoles = map[Action][]enums.StaffRole{
	ActionReceive:      {enums.StaffRoleReceiver},
	ActionInspection:   {enums.StaffRoleOTK},
	ActionPacking:      {enums.StaffRolePacker},
	ActionMarking:      {enums.StaffRoleMarker},
	ActionMarkingCodes: {enums.StaffRoleMarker},
}

// RoleAllowed reports whether the role may perform the action.
func RoleAllowed(role enums.StaffRole, action Action) bool {
	for _, allowed := range actionRoles[action] {
		if allowed == role {
			return true
		}
	}
	return false
}
