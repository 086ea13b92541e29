// Package msgpack provides the compact binary serialization format.
// Byte payloads travel as raw msgpack bin values, with no envelope;
// mapping key order is preserved on the wire.
//
// Import for side effects to make the format available:
//
//	import _ "github.com/typecraft/ufokit/serde/msgpack"
package msgpack

import (
	"github.com/typecraft/ufokit"
	"github.com/typecraft/ufokit/serde"
)

// Format is the name this package registers under.
const Format = "msgpack"

func init() {
	serde.Register(Format, codec{})
}

type codec struct{}

func (codec) Dumps(v any) ([]byte, error) {
	tree, err := ufokit.BinaryConverter.Destructure(v)
	if err != nil {
		return nil, err
	}
	return ufokit.MarshalTreeBinary(tree)
}

func (codec) Loads(data []byte, out any) error {
	tree, err := ufokit.UnmarshalTreeBinary(data)
	if err != nil {
		return err
	}
	return ufokit.BinaryConverter.Structure(tree, out)
}
