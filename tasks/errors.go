package tasks

import (
	"github.com/juju/errors"
)

// alreadyDone is returned by Run on a task that has been executed
type alreadyDone struct {
	errors.Err
}

// AlreadyDonef returns an error which satisfies IsAlreadyDone()
func AlreadyDonef(format string, args ...interface{}) error {
	err := &alreadyDone{errors.NewErr(format+" already done", args...)}
	err.SetLocation(1)
	return err
}

// IsAlreadyDone reports whether err was created with AlreadyDonef()
func IsAlreadyDone(err error) bool {
	_, ok := errors.Cause(err).(*alreadyDone)
	return ok
}

// IsValidationError reports whether err is returned for a malformed task spec
func IsValidationError(err error) bool {
	return errors.IsNotValid(err)
}

// IsDuplicateID reports whether err is returned for a task already registered
func IsDuplicateID(err error) bool {
	return errors.IsAlreadyExists(err)
}

// IsNotFound reports whether err is returned for an unknown task ID
func IsNotFound(err error) bool {
	return errors.IsNotFound(err)
}
