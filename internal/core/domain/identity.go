package domain

import "encoding/json"

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Identity models the authenticated user as the client sees it.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// wireIdentity accepts the identity payload shapes the backend variants
// emit: the user id arrives as either "id" or "_id", and role may be absent.
type wireIdentity struct {
	ID       string `json:"id"`
	LegacyID string `json:"_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// NormalizeIdentity translates a raw backend user payload into an Identity.
// It is the single place wire payloads become identities: "_id" maps to ID
// when "id" is missing, and an omitted role defaults to RoleMember.
func NormalizeIdentity(payload []byte) (*Identity, error) {
	var w wireIdentity
	if err := json.Unmarshal(payload, &w); err != nil {
		return nil, err
	}
	id := w.ID
	if id == "" {
		id = w.LegacyID
	}
	role := w.Role
	if role == "" {
		role = RoleMember
	}
	return &Identity{ID: id, Name: w.Name, Email: w.Email, Role: role}, nil
}
