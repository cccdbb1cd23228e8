package search

// Kind classifies a failure reported to the user.
type Kind int

const (
	// KindValidation is bad user input, caught before any network call.
	KindValidation Kind = iota + 1
	// KindNotFound means the geocoding service returned no matches.
	KindNotFound
	// KindDataUnavailable means the weather service answered without usable data.
	KindDataUnavailable
	// KindTransport covers network, HTTP status and decoding failures.
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not found"
	case KindDataUnavailable:
		return "data unavailable"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Message is the short text shown to the user for this kind.
func (k Kind) Message() string {
	switch k {
	case KindValidation:
		return "Please enter a city name."
	case KindNotFound:
		return "No matching cities found."
	case KindDataUnavailable:
		return "Weather data unavailable."
	default:
		return "Network error. Please try again."
	}
}

// Error is a reported, non-fatal failure. Error() returns only the
// user-facing message; the underlying cause is available via Unwrap.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return e.Kind.Message()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels below, so errors.Is(err, ErrTransport)
// holds for any transport failure regardless of its cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Err == nil && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrValidation      = &Error{Kind: KindValidation}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrDataUnavailable = &Error{Kind: KindDataUnavailable}
	ErrTransport       = &Error{Kind: KindTransport}
)

func newError(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Err: cause}
}
