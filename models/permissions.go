package models

import "strings"

// Permission is a single capability granted to a user.
type Permission string

const (
	PermissionAdmin            Permission = "ADMIN"
	PermissionUser             Permission = "USER"
	PermissionItemCreate       Permission = "ITEMCREATE"
	PermissionItemUpdate       Permission = "ITEMUPDATE"
	PermissionItemDelete       Permission = "ITEMDELETE"
	PermissionPermissionUpdate Permission = "PERMISSIONUPDATE"
)

// Permissions is the capability set resolved for the current caller.
type Permissions []Permission

// HasAny reports whether the set holds at least one of the required
// capabilities.
func (p Permissions) HasAny(required ...Permission) bool {
	for _, have := range p {
		for _, want := range required {
			if have == want {
				return true
			}
		}
	}
	return false
}

// ParsePermissions parses a comma-separated capability list, as delivered in
// the X-User-Permissions header. Blank entries are dropped.
func ParsePermissions(raw string) Permissions {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	perms := make(Permissions, 0, len(parts))
	for _, part := range parts {
		part = strings.ToUpper(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		perms = append(perms, Permission(part))
	}
	return perms
}
