package space

import "errors"

// Sentinel errors returned by bound actions. Callers match with errors.Is.
var (
	ErrNilAction       = errors.New("nil action")
	ErrMissingListID   = errors.New("list child declared without id")
	ErrDuplicateListID = errors.New("duplicate id in list")
	ErrIDMismatch      = errors.New("list child changed its id")
	ErrForeignHandle   = errors.New("child handle declared by another action")
	ErrHandleReused    = errors.New("child handle placed more than once")
	ErrDetached        = errors.New("space is detached from its tree")
)
