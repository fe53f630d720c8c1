package domain

// Role is the session role claim. Deletion capability is granted solely by
// the role equaling RoleAdmin; record ownership is irrelevant.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)
