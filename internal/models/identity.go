package models

// Role is the authorization tier attached to an identity.
type Role string

// Roles recognized by the moderation core.
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Identity is the authenticated caller passed explicitly into every workflow
// operation. The identity provider is trusted for both the identifier and the
// role claim; the engine never reads ambient session state.
type Identity struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	Role Role   `json:"role"`
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// Authenticated reports whether the identity carries a caller identifier.
func (i Identity) Authenticated() bool {
	return i.ID != ""
}
