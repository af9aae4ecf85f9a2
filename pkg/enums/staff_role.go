package enums

import "fmt"

// StaffRole identifies the workshop station a staff member works.
type StaffRole string

const (
	StaffRoleDirector   StaffRole = "director"
	StaffRoleReceiver   StaffRole = "receiver"
	StaffRoleOTK        StaffRole = "otk"
	StaffRolePacker     StaffRole = "packer"
	StaffRoleMarker     StaffRole = "marker"
	StaffRoleController StaffRole = "controller"
)

var validStaffRoles = []StaffRole{
	StaffRoleDirector,
	StaffRoleReceiver,
	StaffRoleOTK,
	StaffRolePacker,
	StaffRoleMarker,
	StaffRoleController,
}

var staffRoleLabels = map[StaffRole]string{
	StaffRoleDirector:   "Director",
	StaffRoleReceiver:   "Receiver",
	StaffRoleOTK:        "Quality inspector",
	StaffRolePacker:     "Packer",
	StaffRoleMarker:     "Marker",
	StaffRoleController: "Grouping controller",
}

// String implements fmt.Stringer.
func (s StaffRole) String() string {
	return string(s)
}

// Label returns the display name for the role.
func (s StaffRole) Label() string {
	if label, ok := staffRoleLabels[s]; ok {
		return label
	}
	return string(s)
}

// IsValid reports whether the value is a known StaffRole.
func (s StaffRole) IsValid() bool {
	for _, candidate := range validStaffRoles {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStaffRole converts raw input into a StaffRole.
func ParseStaffRole(value string) (StaffRole, error) {
	for _, candidate := range validStaffRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid staff role %q", value)
}
