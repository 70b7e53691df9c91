// Package goir provides a dialect-extensible SSA intermediate representation
// with a canonical textual form.
//
// A document is a tree of operations: each operation consumes SSA values,
// produces SSA values and may own regions of blocks holding further
// operations. Every operation kind belongs to a dialect registered in an
// ir.Registry; dialects extend the core with operations, attributes and
// types without the core knowing about them.
//
// The package provides a high-level pipeline API over the subpackages as
// well as direct access to the individual stages.
//
// Example usage:
//
//	source := `builtin.module {
//	  %c = arith.constant 4 : i32
//	}`
//	module, err := goir.Parse(source, goir.DefaultRegistry())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(goir.Print(module, goir.DefaultRegistry()))
//
// Text produced by Print is canonical: parsing it and printing again yields
// the same bytes.
package goir

import (
	"fmt"
	"sync"

	"github.com/goir/goir/dialects/arith"
	"github.com/goir/goir/dialects/builtin"
	"github.com/goir/goir/dialects/loop"
	"github.com/goir/goir/dialects/mem"
	"github.com/goir/goir/dialects/seq"
	"github.com/goir/goir/dialects/stream"
	"github.com/goir/goir/ir"
	"github.com/goir/goir/printer"
	"github.com/goir/goir/text"
)

// RegisterStandardDialects registers every dialect shipped with this module
// into r: builtin, arith, seq, mem, loop and stream.
func RegisterStandardDialects(r *ir.Registry) error {
	for _, reg := range []func(*ir.Registry) error{
		builtin.Register,
		arith.Register,
		seq.Register,
		mem.Register,
		loop.Register,
		stream.Register,
	} {
		if err := reg(r); err != nil {
			return err
		}
	}
	return nil
}

// StandardRegistry returns a fresh registry with the standard dialects
// registered. Tests and embedders that add their own dialects on top start
// here.
func StandardRegistry() *ir.Registry {
	r := ir.NewRegistry()
	if err := RegisterStandardDialects(r); err != nil {
		// The standard dialects have disjoint names; a collision here is a
		// bug in this module.
		panic(fmt.Sprintf("goir: registering standard dialects: %v", err))
	}
	return r
}

var defaultOnce sync.Once

// DefaultRegistry returns the process-wide registry with the standard
// dialects registered.
func DefaultRegistry() *ir.Registry {
	defaultOnce.Do(func() {
		if err := RegisterStandardDialects(ir.Default()); err != nil {
			panic(fmt.Sprintf("goir: registering standard dialects: %v", err))
		}
	})
	return ir.Default()
}

// Parse parses one top-level operation from source.
func Parse(source string, reg *ir.Registry) (*ir.Operation, error) {
	return text.ParseModule(source, reg)
}

// Verify checks op and everything nested in it against the registered
// operation definitions. A nil error means the graph is valid; otherwise the
// error is a *ir.VerificationError carrying every diagnostic found.
func Verify(op *ir.Operation, reg *ir.Registry) error {
	return ir.Verify(op, reg)
}

// Print renders op in canonical textual form.
func Print(op *ir.Operation, reg *ir.Registry) string {
	return printer.Print(op, reg)
}

// RoundTrip parses source, verifies the graph and prints it back in
// canonical form.
func RoundTrip(source string, reg *ir.Registry) (string, error) {
	op, err := Parse(source, reg)
	if err != nil {
		return "", err
	}
	if err := Verify(op, reg); err != nil {
		return "", err
	}
	return Print(op, reg), nil
}
