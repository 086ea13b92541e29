// Package serde is the registry binding serialization formats to fonts
// and other entities. Format packages register themselves on import, in
// the manner of database/sql drivers:
//
//	import (
//		"github.com/typecraft/ufokit/serde"
//		_ "github.com/typecraft/ufokit/serde/json"
//	)
//
//	data, err := serde.Dumps("json", font)
//
// Calling into a format that was never imported (or whose registration
// failed) returns ExtrasNotInstalledError; the registry itself never
// fails at registration time.
package serde

import (
	"io"
	"os"
	"sort"
	"sync"

	"github.com/typecraft/ufokit"
)

// Codec is one serialization format.
type Codec interface {
	// Dumps serializes v.
	Dumps(v any) ([]byte, error)
	// Loads deserializes data into *out.
	Loads(data []byte, out any) error
}

type registration struct {
	codec Codec
	cause error // set instead of codec for an unavailable format
}

var (
	mu      sync.RWMutex
	formats = make(map[string]registration)
)

// Register installs a codec under name. Registering the same name twice
// is a programming error.
func Register(name string, c Codec) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := formats[name]; dup {
		panic("serde: Register called twice for format " + name)
	}
	if c == nil {
		panic("serde: Register called with nil codec for format " + name)
	}
	formats[name] = registration{codec: c}
}

// RegisterUnavailable records that a format exists but cannot be used,
// keeping the cause. Every later call naming the format fails with an
// ExtrasNotInstalledError wrapping cause.
func RegisterUnavailable(name string, cause error) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := formats[name]; dup {
		panic("serde: Register called twice for format " + name)
	}
	formats[name] = registration{cause: cause}
}

// Formats lists the registered format names, available or not, sorted.
func Formats() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookup(name string) (Codec, error) {
	mu.RLock()
	reg, ok := formats[name]
	mu.RUnlock()
	if !ok {
		return nil, &ufokit.ExtrasNotInstalledError{Format: name}
	}
	if reg.codec == nil {
		return nil, &ufokit.ExtrasNotInstalledError{Format: name, Cause: reg.cause}
	}
	return reg.codec, nil
}

// Dumps serializes v in the named format.
func Dumps(format string, v any) ([]byte, error) {
	c, err := lookup(format)
	if err != nil {
		return nil, err
	}
	return c.Dumps(v)
}

// Loads deserializes data in the named format into *out.
func Loads(format string, data []byte, out any) error {
	c, err := lookup(format)
	if err != nil {
		return err
	}
	return c.Loads(data, out)
}

// Dump serializes v in the named format to w.
func Dump(format string, v any, w io.Writer) error {
	data, err := Dumps(format, v)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Load deserializes the named format from r into *out.
func Load(format string, r io.Reader, out any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return Loads(format, data, out)
}

// DumpFile serializes v in the named format to a file at path.
func DumpFile(format string, v any, path string) error {
	data, err := Dumps(format, v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadFile deserializes the named format from the file at path.
func LoadFile(format string, path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return Loads(format, data, out)
}
