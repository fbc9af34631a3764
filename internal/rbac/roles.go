package rbac

// Role names. Keep these stable; they are part of auth contracts.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

func IsAdmin(role string) bool { return role == RoleAdmin }
