package user

import "errors"

var (
	ErrInvalidRole             = errors.New("role must be employee or manager")
	ErrManagerAccessRequired   = errors.New("access denied, manager role required")
	ErrEmployeeAccessRequired  = errors.New("access denied, employee role required")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)
