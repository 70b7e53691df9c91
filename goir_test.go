package goir_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goir/goir"
	"github.com/goir/goir/ir"
)

func TestStandardRegistry(t *testing.T) {
	reg := goir.StandardRegistry()
	require.Equal(t, []string{"arith", "builtin", "loop", "mem", "seq", "stream"}, reg.DialectNames())

	// A fresh registry each call; registering on one does not leak into the
	// next.
	err := reg.Register(&ir.Dialect{Name: "x", Ops: []ir.OpDef{{Name: "x.op"}}})
	require.NoError(t, err)
	require.False(t, goir.StandardRegistry().HasDialect("x"))
}

func TestDefaultRegistry(t *testing.T) {
	require.Same(t, goir.DefaultRegistry(), goir.DefaultRegistry())
	require.True(t, goir.DefaultRegistry().HasDialect("builtin"))
}

func TestRoundTrip_Clocks(t *testing.T) {
	reg := goir.StandardRegistry()
	err := reg.Register(&ir.Dialect{
		Name: "test",
		Ops:  []ir.OpDef{{Name: "test.source", NumResults: 1}},
	})
	require.NoError(t, err)

	source := `builtin.module {
  %clk = "test.source"() : () -> !seq.clock
  %wire = "test.source"() : () -> i1
  %div_clk = seq.clock_div %clk by 4
  %mux_clk = seq.clock_mux %wire, %clk, %div_clk
}
`
	out, err := goir.RoundTrip(source, reg)
	require.NoError(t, err)
	require.Equal(t, source, out)
}

func TestRoundTrip_ParseError(t *testing.T) {
	_, err := goir.RoundTrip("builtin.module {", goir.StandardRegistry())
	require.Error(t, err)
}

func TestRoundTrip_VerifyError(t *testing.T) {
	_, err := goir.RoundTrip(`builtin.module {
  %c = "arith.constant"() : () -> i32
}
`, goir.StandardRegistry())

	var verr *ir.VerificationError
	require.ErrorAs(t, err, &verr)
}
