// ABOUTME: Permission descriptors consumed by the permission gate
// ABOUTME: A PermissionSet is opaque to the shell and evaluated by an Authorizer

package auth

import "strings"

// Permission is a single permission descriptor.
type Permission struct {
	Action  string `toml:"action" yaml:"action"`
	Subject string `toml:"subject" yaml:"subject"`
}

// Matches reports whether a granted permission satisfies the required one.
// A required permission without a subject is satisfied by any subject.
func (granted Permission) Matches(required Permission) bool {
	if granted.Action != required.Action {
		return false
	}
	return required.Subject == "" || granted.Subject == required.Subject
}

func (p Permission) String() string {
	if p.Subject == "" {
		return p.Action
	}
	return p.Action + "@" + p.Subject
}

// PermissionSet is the set of permissions required to enter a gated subtree.
type PermissionSet []Permission

// Empty reports whether the set carries no requirement.
func (s PermissionSet) Empty() bool {
	return len(s) == 0
}

func (s PermissionSet) String() string {
	parts := make([]string, len(s))
	for i, p := range s {
		parts[i] = p.String()
	}
	return strings.Join(parts, ",")
}

// Admin permission sets used by the built-in console pages.
var (
	MarketplaceMain = PermissionSet{{Action: "admin::marketplace.read"}}
	SettingsMain    = PermissionSet{}
)
