package rewrite

import (
	"errors"
	"fmt"
	"sort"

	"github.com/goir/goir/ir"
)

// Options configures the worklist driver.
type Options struct {
	// MaxApplications caps the number of applied rewrites before the driver
	// gives up with *NonConvergenceError. Zero means DefaultMaxApplications.
	MaxApplications int

	// DebugVerify re-verifies the enclosing graph after every applied
	// rewrite. A verification failure is a fatal internal error of the
	// running pattern set, never a normal match failure. Requires Registry.
	DebugVerify bool

	// Registry resolves operation definitions for DebugVerify.
	Registry *ir.Registry
}

// DefaultMaxApplications bounds runaway pattern sets.
const DefaultMaxApplications = 10000

// DefaultOptions returns the default driver configuration.
func DefaultOptions() Options {
	return Options{MaxApplications: DefaultMaxApplications}
}

// Apply runs the pattern set over one region until fixpoint. It returns the
// number of applied rewrites. Patterns are tried highest benefit first,
// registration order breaking ties; the first match on a popped operation is
// applied and the driver moves on, re-enqueueing every operation whose
// operand set changed.
func Apply(region *ir.Region, patterns []Pattern, opts Options) (int, error) {
	d := newDriver(patterns, opts)
	d.root = region.Owner()
	ir.WalkRegion(region, d.enqueue)
	return d.run()
}

// ApplyToOp runs the pattern set over every region of op.
func ApplyToOp(op *ir.Operation, patterns []Pattern, opts Options) (int, error) {
	d := newDriver(patterns, opts)
	d.root = op
	for _, r := range op.Regions() {
		ir.WalkRegion(r, d.enqueue)
	}
	return d.run()
}

type driver struct {
	opts     Options
	patterns []Pattern
	root     *ir.Operation

	queue  []*ir.Operation
	queued map[*ir.Operation]bool
	erased map[*ir.Operation]bool
}

func newDriver(patterns []Pattern, opts Options) *driver {
	if opts.MaxApplications <= 0 {
		opts.MaxApplications = DefaultMaxApplications
	}
	ordered := make([]Pattern, len(patterns))
	copy(ordered, patterns)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Benefit() > ordered[j].Benefit()
	})
	return &driver{
		opts:     opts,
		patterns: ordered,
		queued:   make(map[*ir.Operation]bool),
		erased:   make(map[*ir.Operation]bool),
	}
}

func (d *driver) enqueue(op *ir.Operation) {
	if op == nil || d.queued[op] || d.erased[op] {
		return
	}
	d.queued[op] = true
	d.queue = append(d.queue, op)
}

func (d *driver) run() (int, error) {
	if d.opts.DebugVerify && d.opts.Registry == nil {
		return 0, errors.New("DebugVerify requires Options.Registry")
	}
	rw := &Rewriter{d: d}
	applied := 0
	for len(d.queue) > 0 {
		op := d.queue[0]
		d.queue = d.queue[1:]
		d.queued[op] = false
		if d.erased[op] || op.Block() == nil {
			continue
		}
		for _, pat := range d.patterns {
			ok, err := pat.MatchAndRewrite(op, rw)
			if err != nil {
				return applied, fmt.Errorf("pattern %q failed: %w", pat.Name(), err)
			}
			if !ok {
				continue
			}
			applied++
			if applied > d.opts.MaxApplications {
				return applied, &NonConvergenceError{Applied: applied, Cap: d.opts.MaxApplications}
			}
			if d.opts.DebugVerify && d.root != nil {
				if verr := ir.Verify(d.root, d.opts.Registry); verr != nil {
					return applied, fmt.Errorf("internal error: pattern %q left the graph inconsistent: %w", pat.Name(), verr)
				}
			}
			break
		}
	}
	return applied, nil
}
