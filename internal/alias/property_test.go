package alias_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/dshills/alias/internal/alias"
	"github.com/dshills/alias/internal/namespace"
)

// Every source runs exactly once per call, in registration order, with the
// original arguments, and the counter advances by the number of sources.
func TestProperty_DispatchOrderAndCount(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		nSources := rapid.IntRange(1, 6).Draw(rt, "sources")
		nCalls := rapid.IntRange(1, 4).Draw(rt, "calls")
		args := rapid.SliceOfN(rapid.Int(), 0, 4).Draw(rt, "args")

		root := namespace.NewTable()
		eng := alias.NewEngine(root)

		var got []string
		names := make([]string, nSources)
		for i := range names {
			name := fmt.Sprintf("s%d", i)
			names[i] = name
			root.Define(name, func(recv any, in []any) (any, error) {
				require.Len(rt, in, len(args))
				for j := range args {
					require.Equal(rt, args[j], in[j])
				}
				got = append(got, name)
				return nil, nil
			})
		}

		a, err := eng.Alias(names...).As("dest")
		require.NoError(rt, err)

		v, _ := root.Lookup("dest")
		callArgs := make([]any, len(args))
		for i, x := range args {
			callArgs[i] = x
		}
		for i := 0; i < nCalls; i++ {
			_, err := v.(namespace.Callable).Call(nil, callArgs)
			require.NoError(rt, err)
		}

		var want []string
		for i := 0; i < nCalls; i++ {
			want = append(want, names...)
		}
		require.Equal(rt, want, got)
		require.Equal(rt, int64(nSources*nCalls), a.CallCount())

		require.NoError(rt, a.Revert())
		_, ok := root.Lookup("dest")
		require.False(rt, ok)
	})
}
