package sim

import "errors"

// Error taxonomy shared by every engine package. Failures are wrapped with
// fmt.Errorf("%w: ...", ErrX, ...) so callers can classify them with errors.Is.
var (
	// ErrConfiguration rejects a run before any state is touched: zero modulus,
	// non-positive seed, non-positive customer or cycle counts, malformed tables.
	ErrConfiguration = errors.New("configuration error")

	// ErrInsufficientData is fatal to a single computation only: an empty
	// probability table, a sample too small for the requested test.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrComputation reports a numeric condition that makes a formula undefined,
	// such as a zero-variance sample in the autocorrelation test.
	ErrComputation = errors.New("computation error")
)
