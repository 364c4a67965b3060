package domain

import (
	"strings"
	"time"
)

// Credential is a stored API key record. The plaintext secret is never kept;
// only its peppered digest is.
type Credential struct {
	ID         string
	SecretHash string
	OwnerLabel string
	Role       Role
	Protected  bool       // Minted by bootstrap or reinitialize; may be revoked but not purged
	LastUsedAt *time.Time // nil means never used
	CreatedAt  time.Time
	Active     bool
}

// Labels given to credentials minted by the lifecycle operations.
const (
	LabelInitialAdmin       = "Initial Admin Key"
	LabelReinitializedAdmin = "Reinitialized Admin Key"
	LabelSeededAdmin        = "Seeded Admin Key"
)

// Role is the closed set of authority levels a credential can carry.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

// ParseRole maps a wire or storage value onto a Role.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleClient:
		return RoleClient, true
	default:
		return "", false
	}
}

func (r Role) Valid() bool { return r == RoleAdmin || r == RoleClient }

func (r Role) String() string { return string(r) }

// Capability names an action guarded by an authorization check. The string
// form doubles as the scope attached to an authenticated request.
type Capability string

const (
	// CapabilityUseResources covers the todo collection.
	CapabilityUseResources Capability = "resources:use"
	// CapabilityManageKeys covers issuing, listing, revoking and purging keys.
	CapabilityManageKeys Capability = "keys:manage"
)

// Can reports whether a credential with this role may perform c.
func (r Role) Can(c Capability) bool {
	switch r {
	case RoleAdmin:
		return c == CapabilityUseResources || c == CapabilityManageKeys
	case RoleClient:
		return c == CapabilityUseResources
	default:
		return false
	}
}

// Scopes lists every capability the role grants, as strings.
func (r Role) Scopes() []string {
	var out []string
	for _, c := range []Capability{CapabilityUseResources, CapabilityManageKeys} {
		if r.Can(c) {
			out = append(out, string(c))
		}
	}
	return out
}

// Identity is the result of a successful key validation.
type Identity struct {
	CredentialID string
	Role         Role
	OwnerLabel   string
}

// Can is shorthand for Identity.Role.Can.
func (i Identity) Can(c Capability) bool { return i.Role.Can(c) }

// OperatorIdentity is used by the CLI, which acts with shell access to the
// store rather than through a presented key.
func OperatorIdentity() Identity {
	return Identity{
		CredentialID: "operator",
		Role:         RoleAdmin,
		OwnerLabel:   "operator",
	}
}
