package domain

// Principal is the authenticated actor making a request
type Principal struct {
	UserID int64
	Role   Role
}

// IsClient returns true if the principal acts as a client
func (p Principal) IsClient() bool {
	return p.Role == RoleClient
}
