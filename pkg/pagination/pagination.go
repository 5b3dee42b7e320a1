package pagination

import "fmt"

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 10
	// MaxLimit caps how many rows any list query can request.
	MaxLimit = 100
)

// Params holds offset pagination inputs from controllers or services.
type Params struct {
	Limit  int
	Offset int
}

// Default returns the first page with the standard page size.
func Default() Params {
	return Params{Limit: DefaultLimit}
}

// Validate rejects values outside the accepted window instead of clamping them.
func (p Params) Validate() error {
	if p.Limit < 1 || p.Limit > MaxLimit {
		return fmt.Errorf("limit must be between 1 and %d", MaxLimit)
	}
	if p.Offset < 0 {
		return fmt.Errorf("offset must be zero or greater")
	}
	return nil
}

// Normalize fills in defaults and clamps the limit for internal callers that skip
// request validation.
func (p Params) Normalize() Params {
	return Params{Limit: NormalizeLimit(p.Limit), Offset: max(p.Offset, 0)}
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
