package engine

import "errors"

// Sentinel errors for the engine contract. Handlers map these to HTTP statuses
// via Classify; services wrap them with fmt.Errorf("...: %w", err) for context.
var (
	// DigitCodec
	ErrIncompleteResult   = errors.New("incomplete result entry")
	ErrMalformedNumberSet = errors.New("malformed number set")
	ErrInvalidDigits      = errors.New("invalid digits")

	// Caller-side input problems that are not about digit strings
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrOptionUnsupported = errors.New("bet option not supported by lottery")

	// TierResolver — both indicate a configuration defect, never defaulted over
	ErrNoTierConfigured     = errors.New("no payout tier covers the amount")
	ErrAmbiguousTierOverlap = errors.New("overlapping payout tiers")

	// Registry/Ledger — expected business outcomes
	ErrNumberClosed    = errors.New("number is closed for betting")
	ErrLimitExceeded   = errors.New("sell limit exceeded")
	ErrStakeOutOfRange = errors.New("stake outside configured min/max bet")

	// Lifecycle
	ErrDrawNotOpen       = errors.New("draw is not open for betting")
	ErrInvalidTransition = errors.New("invalid draw status transition")

	// Transient contention, the only error eligible for automatic retry
	ErrBusy = errors.New("ledger busy")
)

// ErrorKind partitions the taxonomy so callers can tell an expected rejection
// from a configuration defect.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindConfigDefect
	KindBusinessOutcome
	KindLifecycle
	KindTransient
)

// Classify returns the taxonomy bucket for an engine error.
func Classify(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrIncompleteResult),
		errors.Is(err, ErrMalformedNumberSet),
		errors.Is(err, ErrInvalidDigits),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrOptionUnsupported),
		errors.Is(err, ErrStakeOutOfRange):
		return KindValidation
	case errors.Is(err, ErrNoTierConfigured),
		errors.Is(err, ErrAmbiguousTierOverlap):
		return KindConfigDefect
	case errors.Is(err, ErrNumberClosed),
		errors.Is(err, ErrLimitExceeded):
		return KindBusinessOutcome
	case errors.Is(err, ErrDrawNotOpen),
		errors.Is(err, ErrInvalidTransition):
		return KindLifecycle
	case errors.Is(err, ErrBusy):
		return KindTransient
	default:
		return KindUnknown
	}
}
