package rewrite

import "fmt"

// NonConvergenceError reports that the worklist driver hit its iteration cap
// before reaching fixpoint.
type NonConvergenceError struct {
	Applied int
	Cap     int
}

func (e *NonConvergenceError) Error() string {
	return fmt.Sprintf("rewrite driver did not converge: %d rewrites applied, cap is %d", e.Applied, e.Cap)
}

// ReplacementArityError reports a ReplaceOp call whose value count does not
// match the replaced operation's result count.
type ReplacementArityError struct {
	Op      string
	Results int
	Values  int
}

func (e *ReplacementArityError) Error() string {
	return fmt.Sprintf("cannot replace '%s': %d result(s) but %d replacement value(s)", e.Op, e.Results, e.Values)
}
