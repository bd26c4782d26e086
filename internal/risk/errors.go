package risk

import "errors"

// Every failure in this package reflects a caller contract violation, not a
// transient condition: nothing is retried and no default size is ever
// substituted silently. Callers match with errors.Is.
var (
	// ErrInvalidConfiguration is returned when a Config fails validation at
	// pipeline construction.
	ErrInvalidConfiguration = errors.New("invalid risk configuration")

	// ErrUnknownRegimeLabel is returned when an observed regime label has no
	// entry in the configured multiplier table.
	ErrUnknownRegimeLabel = errors.New("unknown regime label")

	// ErrInsufficientStatistics is returned when Kelly sizing is enabled
	// without usable trade statistics. Callers may recover by disabling the
	// Kelly stage for the run.
	ErrInsufficientStatistics = errors.New("insufficient trade statistics")

	// ErrMissingInput is returned when an enabled stage's required input
	// series was not supplied.
	ErrMissingInput = errors.New("missing input series")

	// ErrMisalignedInput is returned when a supplied series is not the same
	// length as the price series.
	ErrMisalignedInput = errors.New("misaligned input series")
)
