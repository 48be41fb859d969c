package errs

import (
	"errors"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrAlreadyBorrowed  = errors.New("book is already borrowed by this user")
	ErrAlreadyReturned  = errors.New("borrow record is already returned")
	ErrUnavailable      = errors.New("no copies available")
	ErrHasActiveBorrows = errors.New("book has active borrows")
	ErrInvalidCopies    = errors.New("total copies below copies in circulation")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrSelfRoleChange   = errors.New("admin cannot change own role")
	ErrNotApproved      = errors.New("account is not approved")
	ErrUserExists       = errors.New("user already registered")
	ErrTransientStore   = errors.New("store unavailable")
)

// StoreError wraps a datastore failure. It matches ErrTransientStore.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	return target == ErrTransientStore
}

func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}
