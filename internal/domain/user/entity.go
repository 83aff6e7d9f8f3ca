package user

import "errors"

const RoleAdmin = "admin"

var (
	ErrInsufficientBalance = errors.New("insufficient score")
	ErrUserNotFound        = errors.New("user not found")
)

type (
	ID int64

	// Actor is the caller of an operation. A nil *Actor is an anonymous visitor.
	Actor struct {
		ID   ID
		Role string
	}
)

func (a *Actor) IsAdmin() bool { return a != nil && a.Role == RoleAdmin }

// CanManage reports whether the actor owns the resource or is an admin.
func (a *Actor) CanManage(owner ID) bool {
	return a != nil && (a.ID == owner || a.IsAdmin())
}
