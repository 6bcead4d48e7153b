package checkout

import (
	"time"

	"github.com/agrios/cartedge/internal/domain"
)

// State is the phase of a user's checkout session.
type State int

const (
	// StateIdle means no checkout is in progress.
	StateIdle State = iota

	// StateSummaryOpen means the order summary is presented and awaiting
	// confirmation or cancellation.
	StateSummaryOpen

	// StateProcessing means payment is in flight. No cart mutations or
	// further checkout transitions are accepted.
	StateProcessing

	// StateSucceeded means payment completed and the cart was fully cleared.
	StateSucceeded

	// StateSucceededWithWarning means payment completed but one or more cart
	// lines could not be cleared.
	StateSucceededWithWarning
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSummaryOpen:
		return "summary_open"
	case StateProcessing:
		return "processing"
	case StateSucceeded:
		return "succeeded"
	case StateSucceededWithWarning:
		return "succeeded_with_warning"
	default:
		return "unknown"
	}
}

// MarshalText lets the state render as its name in JSON responses.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// session is one user's checkout in progress. Guarded by the simulator's
// mutex; sessions are never shared outside the simulator.
type session struct {
	state   State
	cart    *domain.Cart
	summary domain.Summary
	orderID string
	opened  time.Time
}
