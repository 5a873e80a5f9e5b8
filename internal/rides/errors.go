package rides

import "errors"

var (
	// ErrProfileNotFound: the authenticated caller has no Profile row.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrDriverProfileNotFound: the caller has not completed driver
	// onboarding and cannot act on rides as a driver.
	ErrDriverProfileNotFound = errors.New("driver profile not found")

	// ErrRideUnavailable: no pending ride with that id exists. Covers
	// both "never existed" and "already accepted".
	ErrRideUnavailable = errors.New("ride is no longer available")

	// ErrRideNotFound: ride missing or not visible to the caller.
	ErrRideNotFound = errors.New("ride not found")
)

// ValidationError reports a missing or malformed booking field.
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
