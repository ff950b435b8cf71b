package domain

// RoleAdmin guards the user-management routes. RoleUser is the name the
// registry falls back to when no default authority is configured.
const (
	RoleAdmin = "ROLE_ADMIN"
	RoleUser  = "ROLE_USER"
)

// Authority is a named role grantable to a User. Authorities are created
// through the registry and never deleted by this service.
type Authority struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// User models an account in the identity store. Password holds whatever the
// credential collaborator produced; this layer treats it as opaque text.
type User struct {
	ID          int64       `json:"id"`
	Username    string      `json:"username"`
	Password    string      `json:"-"`
	FirstName   string      `json:"first_name,omitempty"`
	LastName    string      `json:"last_name,omitempty"`
	Email       string      `json:"email,omitempty"`
	Authorities []Authority `json:"authorities,omitempty"`
}

// HasAuthority reports whether the user currently holds the authority.
func (u *User) HasAuthority(authorityID int64) bool {
	for _, a := range u.Authorities {
		if a.ID == authorityID {
			return true
		}
	}
	return false
}

// AuthorityNames projects the authority set as plain role names.
func (u *User) AuthorityNames() []string {
	names := make([]string, 0, len(u.Authorities))
	for _, a := range u.Authorities {
		names = append(names, a.Name)
	}
	return names
}

// Principal is the per-request projection handed to the authentication
// layer: username, stored credential and role names, nothing else.
type Principal struct {
	Username    string
	Password    string
	Authorities []string
}
