// Package json provides the textual serialization format. Byte payloads
// travel as base85 envelopes; mapping key order is preserved on both
// dump and load.
//
// Import for side effects to make the format available:
//
//	import _ "github.com/typecraft/ufokit/serde/json"
package json

import (
	"bytes"
	stdjson "encoding/json"
	"fmt"
	"strings"

	"github.com/typecraft/ufokit"
	"github.com/typecraft/ufokit/serde"
)

// Format is the name this package registers under.
const Format = "json"

func init() {
	serde.Register(Format, codec{})
}

type codec struct{}

func (codec) Dumps(v any) ([]byte, error) {
	tree, err := ufokit.JSONConverter.Destructure(v)
	if err != nil {
		return nil, err
	}
	return stdjson.Marshal(tree)
}

func (codec) Loads(data []byte, out any) error {
	tree, err := Parse(data)
	if err != nil {
		return err
	}
	return ufokit.JSONConverter.Structure(tree, out)
}

// Parse reads JSON into a serializable tree, keeping object key order.
// Integral numbers become int64, everything else float64.
func Parse(data []byte) (any, error) {
	dec := stdjson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tree, err := parseValue(dec)
	if err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("json: trailing data after top-level value")
	}
	return tree, nil
}

func parseValue(dec *stdjson.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case stdjson.Delim:
		switch t {
		case '{':
			return parseObject(dec)
		case '[':
			return parseArray(dec)
		default:
			return nil, fmt.Errorf("json: unexpected %q", t)
		}
	case stdjson.Number:
		return parseNumber(t)
	default:
		// string, bool or nil
		return tok, nil
	}
}

func parseObject(dec *stdjson.Decoder) (any, error) {
	d := ufokit.NewDict()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("json: object key is %T, not string", tok)
		}
		v, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		d.Set(key, v)
	}
	if _, err := dec.Token(); err != nil { // closing brace
		return nil, err
	}
	return d, nil
}

func parseArray(dec *stdjson.Decoder) (any, error) {
	out := []any{}
	for dec.More() {
		v, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if _, err := dec.Token(); err != nil { // closing bracket
		return nil, err
	}
	return out, nil
}

func parseNumber(n stdjson.Number) (any, error) {
	if !strings.ContainsAny(n.String(), ".eE") {
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
	}
	return n.Float64()
}
