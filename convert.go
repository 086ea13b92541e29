package ufokit

import (
	"fmt"
	"reflect"
)

// TreeMarshaler overrides the generic field-table destructuring for types
// whose external representation is not a plain field map.
type TreeMarshaler interface {
	MarshalTree(c *Converter) (any, error)
}

// TreeUnmarshaler is the structuring counterpart of TreeMarshaler. The
// receiver is replaced wholesale; prior contents do not survive.
type TreeUnmarshaler interface {
	UnmarshalTree(c *Converter, tree any) error
}

// ConverterOptions configures a Converter. The zero value gives a strict
// converter that emits defaults and envelopes byte payloads.
type ConverterOptions struct {
	// OmitDefaults drops fields equal to their declared default from
	// destructured output.
	OmitDefaults bool
	// AllowExtraKeys makes structuring ignore input keys that match no
	// field instead of failing with UnexpectedFieldError.
	AllowExtraKeys bool
	// AllowBytes keeps byte payloads as raw []byte leaves. Leave false for
	// wire formats whose primitive leaves cannot represent bytes; payloads
	// are then wrapped in base85 envelopes.
	AllowBytes bool
}

// Converter transforms entities to serializable trees and back. Converters
// are immutable and safe to share.
type Converter struct {
	omitDefaults   bool
	allowExtraKeys bool
	allowBytes     bool
}

func NewConverter(opt ConverterOptions) *Converter {
	return &Converter{
		omitDefaults:   opt.OmitDefaults,
		allowExtraKeys: opt.AllowExtraKeys,
		allowBytes:     opt.AllowBytes,
	}
}

// Preconfigured converters matching the bundled wire formats.
var (
	// JSONConverter envelopes bytes and omits defaults.
	JSONConverter = NewConverter(ConverterOptions{OmitDefaults: true})
	// BinaryConverter keeps raw bytes and omits defaults.
	BinaryConverter = NewConverter(ConverterOptions{OmitDefaults: true, AllowBytes: true})
)

func (c *Converter) OmitsDefaults() bool { return c.omitDefaults }

func (c *Converter) AllowsBytes() bool { return c.allowBytes }

func (c *Converter) AllowsExtraKeys() bool { return c.allowExtraKeys }

// Destructure converts an entity into a serializable tree. Destructuring
// is read-only except that lazy stores and collections are materialized,
// since the output must be complete.
func (c *Converter) Destructure(v any) (any, error) {
	return c.destructureValue(reflect.ValueOf(v), "")
}

// Structure populates *out from a serializable tree. out must be a non-nil
// pointer. There is no partial success: on error the caller must discard
// the target.
func (c *Converter) Structure(tree any, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("ufokit: Structure target must be a non-nil pointer, got %T", out)
	}
	return c.structureValue(tree, rv.Elem(), "")
}

const (
	envelopeTypeKey  = "type"
	envelopeDataKey  = "data"
	envelopeEncKey   = "encoding"
	envelopeTypeData = "data"
	base85Name       = "base85"
)

// EncodeBytes converts a byte payload into its leaf representation: a raw
// copy when the converter allows bytes, a base85 envelope otherwise.
func (c *Converter) EncodeBytes(data []byte) any {
	if c.allowBytes {
		return append([]byte(nil), data...)
	}
	d := NewDict()
	d.Set(envelopeTypeKey, envelopeTypeData)
	d.Set(envelopeDataKey, EncodeBase85(data))
	d.Set(envelopeEncKey, base85Name)
	return d
}

// DecodeBytes reverses EncodeBytes, accepting either raw bytes or an
// envelope regardless of the converter's AllowBytes setting.
func (c *Converter) DecodeBytes(tree any) ([]byte, error) {
	return c.decodeBytes(tree, "")
}

func (c *Converter) decodeBytes(tree any, path string) ([]byte, error) {
	switch v := tree.(type) {
	case []byte:
		return append([]byte(nil), v...), nil
	case *Dict:
		if !isDataEnvelope(v) {
			return nil, typeMismatch(path, "binary data envelope", tree)
		}
		enc, _ := v.Get(envelopeEncKey)
		if enc != base85Name {
			return nil, typeMismatch(path, "supported data encoding", enc)
		}
		text, _ := v.Get(envelopeDataKey)
		s, ok := text.(string)
		if !ok {
			return nil, typeMismatch(path, "base85 string", text)
		}
		data, err := DecodeBase85(s)
		if err != nil {
			return nil, typeMismatch(path, "valid base85 payload", s)
		}
		return data, nil
	default:
		return nil, typeMismatch(path, "bytes", tree)
	}
}

func isDataEnvelope(d *Dict) bool {
	if !d.Contains(envelopeDataKey) || !d.Contains(envelopeEncKey) {
		return false
	}
	if t, ok := d.Get(envelopeTypeKey); ok && t != envelopeTypeData {
		return false
	}
	return true
}

var (
	treeMarshalerType   = reflect.TypeOf((*TreeMarshaler)(nil)).Elem()
	treeUnmarshalerType = reflect.TypeOf((*TreeUnmarshaler)(nil)).Elem()
	bytesType           = reflect.TypeOf([]byte(nil))
)

func (c *Converter) destructureValue(rv reflect.Value, path string) (any, error) {
	if !rv.IsValid() {
		return nil, nil
	}
	if (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) && rv.IsNil() {
		return nil, nil
	}
	if rv.Type().Implements(treeMarshalerType) {
		return rv.Interface().(TreeMarshaler).MarshalTree(c)
	}
	if rv.CanAddr() && reflect.PointerTo(rv.Type()).Implements(treeMarshalerType) {
		return rv.Addr().Interface().(TreeMarshaler).MarshalTree(c)
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return c.destructureValue(rv.Elem(), path)
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.String:
		return rv.String(), nil
	case reflect.Slice, reflect.Array:
		if rv.Type() == bytesType {
			return c.EncodeBytes(rv.Bytes()), nil
		}
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			node, err := c.destructureValue(rv.Index(i), fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out[i] = node
		}
		return out, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, unsupportedType(path, rv.Interface())
		}
		keys := make([]string, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			keys = append(keys, iter.Key().String())
		}
		d := NewDict()
		for _, k := range dictFromSortedKeys(keys) {
			node, err := c.destructureValue(rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())), path+"."+k)
			if err != nil {
				return nil, err
			}
			d.Set(k, node)
		}
		return d, nil
	case reflect.Struct:
		ei := entityInfoOf(rv.Type())
		if ei == nil {
			return nil, unsupportedType(path, rv.Interface())
		}
		return c.destructureStruct(rv, ei, path)
	default:
		return nil, unsupportedType(path, rv.Interface())
	}
}

func (c *Converter) destructureStruct(rv reflect.Value, ei *entityInfo, path string) (any, error) {
	// Output keys follow field declaration order, not the order of any
	// backing map, so diffs of repeated dumps stay stable.
	d := NewDict()
	for _, f := range ei.fields {
		fv := rv.Field(f.index)
		if c.omitDefaults && f.omitDefault && fieldIsDefault(fv, f.def) {
			continue
		}
		node, err := c.destructureValue(fv, path+"."+f.external)
		if err != nil {
			return nil, err
		}
		d.Set(f.external, node)
	}
	return d, nil
}

// fieldIsDefault compares a field against its declared default. The zero
// Transform reads as Identity (see Transform.orIdentity), so entities
// built as struct literals still match defaults that carry one.
func fieldIsDefault(fv, def reflect.Value) bool {
	switch v := fv.Interface().(type) {
	case Transform:
		if d, ok := def.Interface().(Transform); ok {
			return v.orIdentity() == d.orIdentity()
		}
	case Image:
		if d, ok := def.Interface().(Image); ok {
			v.Transformation = v.Transformation.orIdentity()
			d.Transformation = d.Transformation.orIdentity()
			return v == d
		}
	}
	return reflect.DeepEqual(fv.Interface(), def.Interface())
}

func (c *Converter) structureValue(tree any, rv reflect.Value, path string) error {
	if u, ok := structureTarget(rv); ok {
		return u.UnmarshalTree(c, tree)
	}

	switch rv.Kind() {
	case reflect.Pointer:
		if tree == nil {
			rv.Set(reflect.Zero(rv.Type()))
			return nil
		}
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		return c.structureValue(tree, rv.Elem(), path)
	case reflect.Bool:
		b, ok := tree.(bool)
		if !ok {
			return typeMismatch(path, "bool", tree)
		}
		rv.SetBool(b)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := treeInt(tree)
		if !ok || rv.OverflowInt(n) {
			return typeMismatch(path, "integer", tree)
		}
		rv.SetInt(n)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := treeInt(tree)
		if !ok || n < 0 || rv.OverflowUint(uint64(n)) {
			return typeMismatch(path, "unsigned integer", tree)
		}
		rv.SetUint(uint64(n))
		return nil
	case reflect.Float32, reflect.Float64:
		switch n := tree.(type) {
		case float64:
			rv.SetFloat(n)
		case int64:
			rv.SetFloat(float64(n))
		default:
			return typeMismatch(path, "number", tree)
		}
		return nil
	case reflect.String:
		s, ok := tree.(string)
		if !ok {
			return typeMismatch(path, "string", tree)
		}
		rv.SetString(s)
		return nil
	case reflect.Slice:
		if rv.Type() == bytesType {
			data, err := c.decodeBytes(tree, path)
			if err != nil {
				return err
			}
			rv.SetBytes(data)
			return nil
		}
		seq, ok := tree.([]any)
		if !ok {
			if tree == nil {
				rv.Set(reflect.Zero(rv.Type()))
				return nil
			}
			return typeMismatch(path, "sequence", tree)
		}
		out := reflect.MakeSlice(rv.Type(), len(seq), len(seq))
		for i, el := range seq {
			if err := c.structureValue(el, out.Index(i), fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		rv.Set(out)
		return nil
	case reflect.Array:
		seq, ok := tree.([]any)
		if !ok || len(seq) != rv.Len() {
			return typeMismatch(path, fmt.Sprintf("sequence of %d", rv.Len()), tree)
		}
		for i, el := range seq {
			if err := c.structureValue(el, rv.Index(i), fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		return nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return unsupportedType(path, rv.Interface())
		}
		d, ok := tree.(*Dict)
		if !ok {
			if tree == nil {
				rv.Set(reflect.Zero(rv.Type()))
				return nil
			}
			return typeMismatch(path, "mapping", tree)
		}
		out := reflect.MakeMapWithSize(rv.Type(), d.Len())
		for _, k := range d.Keys() {
			v, _ := d.Get(k)
			ev := reflect.New(rv.Type().Elem()).Elem()
			if err := c.structureValue(v, ev, path+"."+k); err != nil {
				return err
			}
			out.SetMapIndex(reflect.ValueOf(k).Convert(rv.Type().Key()), ev)
		}
		rv.Set(out)
		return nil
	case reflect.Interface:
		if rv.Type().NumMethod() != 0 {
			return unsupportedType(path, rv.Interface())
		}
		if tree == nil {
			rv.Set(reflect.Zero(rv.Type()))
			return nil
		}
		rv.Set(reflect.ValueOf(treeToAny(tree)))
		return nil
	case reflect.Struct:
		ei := entityInfoOf(rv.Type())
		if ei == nil {
			return unsupportedType(path, reflect.New(rv.Type()).Elem().Interface())
		}
		return c.structureStruct(tree, rv, ei, path)
	default:
		return unsupportedType(path, reflect.New(rv.Type()).Elem().Interface())
	}
}

// structureTarget finds a custom unmarshaler for the target, allocating
// through pointer fields as needed.
func structureTarget(rv reflect.Value) (TreeUnmarshaler, bool) {
	if rv.Kind() == reflect.Pointer && rv.Type().Implements(treeUnmarshalerType) {
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		return rv.Interface().(TreeUnmarshaler), true
	}
	if rv.CanAddr() && reflect.PointerTo(rv.Type()).Implements(treeUnmarshalerType) {
		return rv.Addr().Interface().(TreeUnmarshaler), true
	}
	return nil, false
}

func (c *Converter) structureStruct(tree any, rv reflect.Value, ei *entityInfo, path string) error {
	d, ok := tree.(*Dict)
	if !ok {
		return typeMismatch(path, "mapping", tree)
	}
	if ei.factory != nil {
		rv.Set(ei.factory())
	}
	for _, f := range ei.fields {
		v, present := d.Get(f.external)
		if !present {
			if f.required {
				return &MissingRequiredFieldError{Path: path, Field: f.external}
			}
			continue // keep the factory default
		}
		if err := c.structureValue(v, rv.Field(f.index), path+"."+f.external); err != nil {
			return err
		}
	}
	if !c.allowExtraKeys {
		for _, k := range d.Keys() {
			if ei.byExternal[k] == nil {
				return &UnexpectedFieldError{Path: path, Field: k}
			}
		}
	}
	return nil
}

func treeInt(tree any) (int64, bool) {
	switch n := tree.(type) {
	case int64:
		return n, true
	case float64:
		if n == float64(int64(n)) {
			return int64(n), true
		}
	}
	return 0, false
}

// treeToAny converts a tree into plain Go values for storage in untyped
// containers (Dict becomes map[string]any, losing order; dynamic maps are
// re-sorted on output anyway).
func treeToAny(tree any) any {
	switch v := tree.(type) {
	case *Dict:
		out := make(map[string]any, v.Len())
		for _, k := range v.Keys() {
			el, _ := v.Get(k)
			out[k] = treeToAny(el)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, el := range v {
			out[i] = treeToAny(el)
		}
		return out
	case []byte:
		return append([]byte(nil), v...)
	default:
		return v
	}
}
