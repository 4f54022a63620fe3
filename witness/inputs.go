package witness

import (
	"encoding/json"
	"hash/fnv"
	"io"
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/wippyai/wasm-witness/errors"
)

// Inputs maps input signal names to their values. Array signals hold their
// elements in row-major order.
type Inputs map[string][]*big.Int

// Names returns the input names in sorted order.
func (in Inputs) Names() []string {
	names := make([]string, 0, len(in))
	for name := range in {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SignalHash splits the FNV-1a 64-bit hash of a signal name into the two
// words getSignalOffset32 takes.
func SignalHash(name string) (msb, lsb uint32) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	sum := h.Sum64()
	return uint32(sum >> 32), uint32(sum)
}

// ParseInputs reads a circom input file: a JSON object whose values are
// integers, decimal or 0x-prefixed strings, or arbitrarily nested arrays of
// those. Nested arrays are flattened.
func ParseInputs(r io.Reader) (Inputs, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.Wrap(errors.PhaseInput, errors.KindInvalidData, err, "decode input JSON")
	}

	in := make(Inputs, len(raw))
	for name, v := range raw {
		values, err := flatten(name, v, nil)
		if err != nil {
			return nil, err
		}
		in[name] = values
	}
	return in, nil
}

func flatten(name string, v any, out []*big.Int) ([]*big.Int, error) {
	switch t := v.(type) {
	case []any:
		for _, e := range t {
			var err error
			if out, err = flatten(name, e, out); err != nil {
				return nil, err
			}
		}
		return out, nil
	case json.Number:
		n, ok := new(big.Int).SetString(t.String(), 10)
		if !ok {
			return nil, invalidValue(name, len(out), t.String(), "not an integer")
		}
		return append(out, n), nil
	case string:
		n, ok := new(big.Int).SetString(strings.TrimSpace(t), 0)
		if !ok {
			return nil, invalidValue(name, len(out), t, "not an integer")
		}
		return append(out, n), nil
	default:
		return nil, invalidValue(name, len(out), v, "unsupported JSON type")
	}
}

func invalidValue(name string, idx int, v any, detail string) error {
	return errors.New(errors.PhaseInput, errors.KindInvalidData).
		Path(name, strconv.Itoa(idx)).
		Value(v).
		Detail("%s: %v", detail, v).
		Build()
}
