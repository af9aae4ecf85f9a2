package enums

import "fmt"

// UserKind separates staff accounts from client accounts.
type UserKind string

const (
	UserKindStaff  UserKind = "staff"
	UserKindClient UserKind = "client"
)

var validUserKinds = []UserKind{
	UserKindStaff,
	UserKindClient,
}

// String implements fmt.Stringer.
func (u UserKind) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UserKind.
func (u UserKind) IsValid() bool {
	for _, candidate := range validUserKinds {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUserKind converts raw input into a UserKind.
func ParseUserKind(value string) (UserKind, error) {
	for _, candidate := range validUserKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user kind %q", value)
}
