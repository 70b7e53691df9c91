// Package mem defines the mem dialect: typed multi-dimensional buffers and
// indexed element access.
package mem

import (
	"fmt"

	"github.com/goir/goir/ir"
)

// Name is the dialect namespace.
const Name = "mem"

// BufferType is a buffer of elements, printed as !mem.buffer<elem>.
type BufferType struct {
	ir.TypeBase
	Elem ir.Type
}

func (t BufferType) String() string {
	return "!mem.buffer<" + t.Elem.String() + ">"
}

// Dialect returns the mem dialect definition.
func Dialect() *ir.Dialect {
	return &ir.Dialect{
		Name: Name,
		Types: []ir.TypeDef{
			{
				Name:  "mem.buffer",
				Parse: parseBufferType,
			},
		},
		Ops: []ir.OpDef{
			{
				Name:       "mem.alloc",
				NumResults: 1,
				Results:    []ir.TypeConstraint{anyBuffer},
				Parse:      parseAlloc,
				Print:      printAlloc,
			},
			{
				Name:        "mem.load",
				NumOperands: -1,
				NumResults:  1,
				Parse:       parseLoad,
				Print:       printLoad,
				Verify:      verifyLoad,
			},
			{
				Name:        "mem.store",
				NumOperands: -1,
				Parse:       parseStore,
				Print:       printStore,
				Verify:      verifyStore,
			},
		},
	}
}

// Register adds the dialect to a registry.
func Register(r *ir.Registry) error {
	return r.Register(Dialect())
}

func anyBuffer(t ir.Type) error {
	if _, ok := t.(BufferType); !ok {
		return fmt.Errorf("expected a buffer type, got '%s'", t)
	}
	return nil
}

func parseBufferType(p ir.AttrParser) (ir.Type, error) {
	if err := p.Expect("<"); err != nil {
		return nil, err
	}
	elem, err := p.ParseType()
	if err != nil {
		return nil, err
	}
	if err := p.Expect(">"); err != nil {
		return nil, err
	}
	return BufferType{Elem: elem}, nil
}

// parseAlloc handles `mem.alloc : !mem.buffer<i32>`.
func parseAlloc(p ir.OpParser, state *ir.OpState) error {
	if err := p.Expect(":"); err != nil {
		return err
	}
	t, err := p.ParseType()
	if err != nil {
		return err
	}
	state.ResultTypes = []ir.Type{t}
	return nil
}

func printAlloc(op *ir.Operation, w ir.OpPrinter) {
	w.Emit(" : ")
	w.PrintType(op.Result(0).Type())
}

// parseLoad handles `mem.load %A[%i, %j] : !mem.buffer<i32>`. The result
// type is the buffer's element type.
func parseLoad(p ir.OpParser, state *ir.OpState) error {
	buf, indices, bt, err := parseAccess(p)
	if err != nil {
		return err
	}
	state.Operands = append([]*ir.Value{buf}, indices...)
	state.ResultTypes = []ir.Type{bt.Elem}
	return nil
}

func printLoad(op *ir.Operation, w ir.OpPrinter) {
	w.Emit(" ")
	printAccess(op.Operand(0), op.Operands()[1:], w)
}

func verifyLoad(op *ir.Operation) error {
	bt, err := checkAccess(op.Operand(0), op.Operands()[1:])
	if err != nil {
		return err
	}
	if !ir.TypeEqual(op.Result(0).Type(), bt.Elem) {
		return fmt.Errorf("result type '%s' does not match buffer element type '%s'", op.Result(0).Type(), bt.Elem)
	}
	return nil
}

// parseStore handles `mem.store %v, %A[%i, %j] : !mem.buffer<i32>`.
func parseStore(p ir.OpParser, state *ir.OpState) error {
	value, err := p.ParseOperand()
	if err != nil {
		return err
	}
	if err := p.Expect(","); err != nil {
		return err
	}
	buf, indices, _, err := parseAccess(p)
	if err != nil {
		return err
	}
	state.Operands = append([]*ir.Value{value, buf}, indices...)
	return nil
}

func printStore(op *ir.Operation, w ir.OpPrinter) {
	w.Emit(" ")
	w.PrintValue(op.Operand(0))
	w.Emit(", ")
	printAccess(op.Operand(1), op.Operands()[2:], w)
}

func verifyStore(op *ir.Operation) error {
	if op.NumOperands() < 2 {
		return fmt.Errorf("expected a value and a buffer operand")
	}
	bt, err := checkAccess(op.Operand(1), op.Operands()[2:])
	if err != nil {
		return err
	}
	if !ir.TypeEqual(op.Operand(0).Type(), bt.Elem) {
		return fmt.Errorf("stored type '%s' does not match buffer element type '%s'", op.Operand(0).Type(), bt.Elem)
	}
	return nil
}

// parseAccess parses the shared `%buf[%i, ...] : !mem.buffer<T>` tail of the
// access operations and checks the trailing type against the buffer operand.
func parseAccess(p ir.OpParser) (*ir.Value, []*ir.Value, BufferType, error) {
	buf, err := p.ParseOperand()
	if err != nil {
		return nil, nil, BufferType{}, err
	}
	if err := p.Expect("["); err != nil {
		return nil, nil, BufferType{}, err
	}
	var indices []*ir.Value
	if !p.Match("]") {
		indices, err = p.ParseOperandList()
		if err != nil {
			return nil, nil, BufferType{}, err
		}
		if err := p.Expect("]"); err != nil {
			return nil, nil, BufferType{}, err
		}
	}
	if err := p.Expect(":"); err != nil {
		return nil, nil, BufferType{}, err
	}
	t, err := p.ParseType()
	if err != nil {
		return nil, nil, BufferType{}, err
	}
	bt, ok := t.(BufferType)
	if !ok {
		return nil, nil, BufferType{}, fmt.Errorf("expected a buffer type, got '%s'", t)
	}
	return buf, indices, bt, nil
}

func printAccess(buf *ir.Value, indices []*ir.Value, w ir.OpPrinter) {
	w.PrintValue(buf)
	w.Emit("[")
	for i, idx := range indices {
		if i > 0 {
			w.Emit(", ")
		}
		w.PrintValue(idx)
	}
	w.Emit("] : ")
	w.PrintType(buf.Type())
}

func checkAccess(buf *ir.Value, indices []*ir.Value) (BufferType, error) {
	bt, ok := buf.Type().(BufferType)
	if !ok {
		return BufferType{}, fmt.Errorf("expected a buffer operand, got '%s'", buf.Type())
	}
	for _, idx := range indices {
		if !ir.TypeEqual(idx.Type(), ir.IndexType{}) {
			return BufferType{}, fmt.Errorf("index operand has type '%s', expected 'index'", idx.Type())
		}
	}
	return bt, nil
}
