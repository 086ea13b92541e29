// Package gob provides the native object-graph serialization format. It
// captures entities directly through encoding/gob, bypassing the tree
// engine; lazy state is materialized by the entities' own GobEncode
// methods.
//
// Import for side effects to make the format available:
//
//	import _ "github.com/typecraft/ufokit/serde/gob"
package gob

import (
	"bytes"
	stdgob "encoding/gob"

	"github.com/typecraft/ufokit"
	"github.com/typecraft/ufokit/serde"
)

// Format is the name this package registers under.
const Format = "gob"

func init() {
	// Concrete types that may travel in lib slots of type any; basic
	// types and their slices are pre-registered by encoding/gob itself.
	stdgob.Register(map[string]any{})
	stdgob.Register([]any{})
	stdgob.Register(ufokit.Lib{})

	serde.Register(Format, codec{})
}

type codec struct{}

func (codec) Dumps(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := stdgob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (codec) Loads(data []byte, out any) error {
	return stdgob.NewDecoder(bytes.NewReader(data)).Decode(out)
}
