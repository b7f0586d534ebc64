package user

// Principal is the verified identity attached to a request.
type Principal struct {
	UserID string
	Email  string
	Name   string
}
