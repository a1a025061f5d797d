package squad

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration marks configuration rejected before the pool
	// is touched: quotas not summing to squad size, negative budget,
	// non-positive squad size.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrSolverTimeout marks an exact solve that could not certify
	// optimality within its wall-clock budget.
	ErrSolverTimeout = errors.New("solver timed out before certifying optimality")

	// ErrSolverInfeasible marks an exact solve that proved no feasible
	// integral roster exists under the budget.
	ErrSolverInfeasible = errors.New("solver found no feasible roster")
)

// InfeasiblePoolError reports a candidate pool that cannot satisfy the
// position quotas by count alone. Raised before any solve attempt.
type InfeasiblePoolError struct {
	Group     PositionGroup
	Required  int
	Available int
}

func (e *InfeasiblePoolError) Error() string {
	return fmt.Sprintf("infeasible pool: position group %s requires %d candidates but only %d available",
		e.Group, e.Required, e.Available)
}

// UnderfilledFormationError reports a roster that lacks enough members in
// some group to fill a requested formation. Always a hard error.
type UnderfilledFormationError struct {
	Formation string
	Group     PositionGroup
	Required  int
	Available int
}

func (e *UnderfilledFormationError) Error() string {
	return fmt.Sprintf("formation %s underfilled: group %s needs %d starters but roster has %d",
		e.Formation, e.Group, e.Required, e.Available)
}

// DataIntegrityError reports a malformed candidate record that reached a
// validation boundary.
type DataIntegrityError struct {
	CandidateID string
	Field       string
	Reason      string
}

func (e *DataIntegrityError) Error() string {
	if e.CandidateID == "" {
		return fmt.Sprintf("data integrity: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("data integrity: candidate %s: %s: %s", e.CandidateID, e.Field, e.Reason)
}
