package ufokit

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// Entity types participate in the generic structuring engine through a
// field descriptor table declared with `ufo` struct tags and registered
// once, together with a factory producing the type's default instance:
//
//	type Anchor struct {
//		X    float64 `ufo:"x,required"`
//		Name string  `ufo:"name,omitempty"`
//		...
//	}
//
// Tag form: `ufo:"<externalName>[,omitempty][,required]"`. Fields without
// a ufo tag are derived/cache-only: never emitted, never accepted on input.
// The factory's field values double as the per-field defaults both for
// omit-if-default checks and for absent input keys.

type fieldInfo struct {
	name        string // Go field name, for diagnostics
	external    string
	index       int
	omitDefault bool
	required    bool
	def         reflect.Value
}

type entityInfo struct {
	typ        reflect.Type
	fields     []*fieldInfo
	byExternal map[string]*fieldInfo
	factory    func() reflect.Value // returns an addressable struct value
}

var entityInfos sync.Map // reflect.Type -> *entityInfo

func entityInfoOf(t reflect.Type) *entityInfo {
	if v, ok := entityInfos.Load(t); ok {
		return v.(*entityInfo)
	}
	return nil
}

// registerEntity builds and caches the field descriptor table for T.
// Called from package init; panics on a malformed declaration.
func registerEntity[T any](factory func() *T) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() != reflect.Struct {
		panic(fmt.Errorf("ufokit: %v is not a struct", t))
	}
	proto := reflect.ValueOf(factory()).Elem()
	info := &entityInfo{
		typ:        t,
		byExternal: make(map[string]*fieldInfo),
		factory: func() reflect.Value {
			return reflect.ValueOf(factory()).Elem()
		},
	}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag, ok := sf.Tag.Lookup("ufo")
		if !ok || tag == "-" {
			continue
		}
		if !sf.IsExported() {
			panic(fmt.Errorf("ufokit: %v.%s: ufo tag on unexported field", t, sf.Name))
		}
		parts := strings.Split(tag, ",")
		f := &fieldInfo{
			name:     sf.Name,
			external: parts[0],
			index:    i,
			def:      proto.Field(i),
		}
		if f.external == "" {
			panic(fmt.Errorf("ufokit: %v.%s: empty external name", t, sf.Name))
		}
		for _, opt := range parts[1:] {
			switch opt {
			case "omitempty":
				f.omitDefault = true
			case "required":
				f.required = true
			default:
				panic(fmt.Errorf("ufokit: %v.%s: unknown tag option %q", t, sf.Name, opt))
			}
		}
		if f.required && f.omitDefault {
			panic(fmt.Errorf("ufokit: %v.%s: required field cannot be omitempty", t, sf.Name))
		}
		if info.byExternal[f.external] != nil {
			panic(fmt.Errorf("ufokit: %v: duplicate external name %q", t, f.external))
		}
		info.fields = append(info.fields, f)
		info.byExternal[f.external] = f
	}
	if len(info.fields) == 0 {
		panic(fmt.Errorf("ufokit: %v has no ufo-tagged fields", t))
	}
	if _, loaded := entityInfos.LoadOrStore(t, info); loaded {
		panic(fmt.Errorf("ufokit: %v registered twice", t))
	}
}
