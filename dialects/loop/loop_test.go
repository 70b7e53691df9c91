package loop_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goir/goir"
	"github.com/goir/goir/dialects/builtin"
	"github.com/goir/goir/dialects/loop"
	"github.com/goir/goir/ir"
)

func TestRoundTrip(t *testing.T) {
	reg := goir.StandardRegistry()
	tests := []struct{ name, source string }{
		{
			name: "empty body",
			source: `builtin.module {
  loop.for %i = 0 to 8 {
    loop.yield
  }
}
`,
		},
		{
			name: "nested loops",
			source: `builtin.module {
  loop.for %i = 0 to 8 {
    loop.for %j = 0 to 16 {
      loop.yield
    }
    loop.yield
  }
}
`,
		},
	}
	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			out, err := goir.RoundTrip(tc.source, reg)
			require.NoError(t, err)
			require.Equal(t, tc.source, out)
		})
	}
}

func TestParse_BindsInductionVariable(t *testing.T) {
	reg := goir.StandardRegistry()
	module, err := goir.Parse(`builtin.module {
  %A = mem.alloc : !mem.buffer<i32>
  loop.for %i = 2 to 9 {
    %v = mem.load %A[%i] : !mem.buffer<i32>
    loop.yield
  }
}
`, reg)
	require.NoError(t, err)
	require.NoError(t, goir.Verify(module, reg))

	forOp := module.Region(0).Entry().Op(1)
	require.Equal(t, "loop.for", forOp.Name())
	require.True(t, ir.AttrEqual(forOp.Attr("lower"), ir.IntegerAttr{Value: 2}))
	require.True(t, ir.AttrEqual(forOp.Attr("upper"), ir.IntegerAttr{Value: 9}))

	body := forOp.Region(0).Entry()
	iv := body.Argument(0)
	require.True(t, ir.TypeEqual(iv.Type(), ir.IndexType{}))
	require.Same(t, iv, body.Op(0).Operand(1))
}

func TestForBuilder(t *testing.T) {
	forOp, body, iv := loop.For(0, 8, ir.Location{})
	require.True(t, ir.TypeEqual(iv.Type(), ir.IndexType{}))
	body.Append(loop.Yield(ir.Location{}))

	module := builtin.NewModule(ir.Location{})
	builtin.Body(module).Append(forOp)
	require.NoError(t, goir.Verify(module, goir.StandardRegistry()))
}

func TestVerify(t *testing.T) {
	reg := goir.StandardRegistry()
	tests := []struct{ name, source, expectedErr string }{
		{
			name: "upper below lower",
			source: `builtin.module {
  loop.for %i = 8 to 0 {
    loop.yield
  }
}
`,
			expectedErr: "upper bound 0 is below lower bound 8",
		},
		{
			name: "body without terminator",
			source: `builtin.module {
  %A = mem.alloc : !mem.buffer<i32>
  loop.for %i = 0 to 8 {
    %v = mem.load %A[%i] : !mem.buffer<i32>
  }
}
`,
			expectedErr: "must end with a terminator",
		},
	}
	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			_, err := goir.RoundTrip(tc.source, reg)
			require.ErrorContains(t, err, tc.expectedErr)
		})
	}
}
