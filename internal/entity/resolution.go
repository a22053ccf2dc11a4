package entity

// Outcome is the terminal state of an alias resolution.
type Outcome int

const (
	OutcomeRedirect Outcome = iota
	OutcomeNotFound
	OutcomeRateLimited
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRedirect:
		return "redirect"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeRateLimited:
		return "rate_limited"
	default:
		return "unknown"
	}
}

// Resolution is the result of resolving an alias.
// Location holds the long URL on redirect and the fallback URL on not found.
type Resolution struct {
	Outcome  Outcome
	Location string
}
