package witness

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/wasm-witness/errors"
)

func TestParseInputs(t *testing.T) {
	in, err := ParseInputs(strings.NewReader(`{
		"a": 3,
		"b": "21888242871839275222246405745257275088548364400416034343698204186575808495616",
		"c": "0x1f",
		"d": [[1, 2], [3, "-4"]],
		"e": -500000000000,
		"f": []
	}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f"}, in.Names())

	assert.Equal(t, int64(3), in["a"][0].Int64())

	b, _ := new(big.Int).SetString("21888242871839275222246405745257275088548364400416034343698204186575808495616", 10)
	assert.Zero(t, b.Cmp(in["b"][0]))

	assert.Equal(t, int64(31), in["c"][0].Int64())

	require.Len(t, in["d"], 4)
	for i, want := range []int64{1, 2, 3, -4} {
		assert.Equal(t, want, in["d"][i].Int64())
	}

	assert.Equal(t, int64(-500_000_000_000), in["e"][0].Int64())
	assert.Empty(t, in["f"])
}

func TestParseInputs_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		path  []string
	}{
		{"fraction", `{"a": 1.5}`, []string{"a", "0"}},
		{"bad string", `{"a": "zz"}`, []string{"a", "0"}},
		{"bool in array", `{"x": [1, true]}`, []string{"x", "1"}},
		{"object", `{"a": {"b": 1}}`, []string{"a", "0"}},
		{"null", `{"a": null}`, []string{"a", "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseInputs(strings.NewReader(tt.input))
			require.Error(t, err)

			var e *errors.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, errors.PhaseInput, e.Phase)
			assert.Equal(t, errors.KindInvalidData, e.Kind)
			assert.Equal(t, tt.path, e.Path)
		})
	}

	t.Run("malformed JSON", func(t *testing.T) {
		_, err := ParseInputs(strings.NewReader(`{"a": `))
		require.Error(t, err)
		assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseInput, Kind: errors.KindInvalidData})
	})

	t.Run("not an object", func(t *testing.T) {
		_, err := ParseInputs(strings.NewReader(`[1, 2]`))
		require.Error(t, err)
	})
}

func TestSignalHash(t *testing.T) {
	// FNV-1a 64 offset basis.
	msb, lsb := SignalHash("")
	assert.Equal(t, uint32(0xcbf29ce4), msb)
	assert.Equal(t, uint32(0x84222325), lsb)

	// FNV-1a 64 of "a" is 0xaf63dc4c8601ec8c.
	msb, lsb = SignalHash("a")
	assert.Equal(t, uint32(0xaf63dc4c), msb)
	assert.Equal(t, uint32(0x8601ec8c), lsb)

	m1, l1 := SignalHash("in")
	m2, l2 := SignalHash("out")
	assert.False(t, m1 == m2 && l1 == l2)
}
