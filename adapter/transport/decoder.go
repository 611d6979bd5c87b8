package transport

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// NumberMode selects how numeric leaves of a generic payload tree are
// represented. Typed wire structs always decode prices and quantities as
// decimal.Decimal, whichever mode is set.
type NumberMode int

const (
	NumberDecimal NumberMode = iota
	NumberString
)

func (m NumberMode) String() string {
	switch m {
	case NumberString:
		return "string"
	default:
		return "decimal"
	}
}

func ParseNumberMode(s string) (NumberMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "decimal":
		return NumberDecimal, nil
	case "string":
		return NumberString, nil
	default:
		return NumberDecimal, fmt.Errorf("unknown number mode %q", s)
	}
}

// DecodeTree decodes body into maps, slices, strings, bools, nil and, for
// every number, a decimal.Decimal or its literal string. Binary floats never
// appear in the result.
func DecodeTree(body []byte, mode NumberMode) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, err
	}

	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level value")
	}

	return convertNumbers(tree, mode)
}

func convertNumbers(v any, mode NumberMode) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			converted, err := convertNumbers(child, mode)
			if err != nil {
				return nil, err
			}
			t[k] = converted
		}
		return t, nil
	case []any:
		for i, child := range t {
			converted, err := convertNumbers(child, mode)
			if err != nil {
				return nil, err
			}
			t[i] = converted
		}
		return t, nil
	case json.Number:
		if mode == NumberString {
			return t.String(), nil
		}
		d, err := decimal.NewFromString(t.String())
		if err != nil {
			return nil, fmt.Errorf("number %q: %w", t.String(), err)
		}
		return d, nil
	default:
		return v, nil
	}
}

// DecodeInto unmarshals body into a typed wire struct.
func DecodeInto(body []byte, v any) error {
	return json.Unmarshal(body, v)
}
