package ufokit

import (
	"encoding/json"
	"reflect"
	"testing"
)

func eq[T comparable](t testing.TB, a, e T) {
	if a != e {
		t.Helper()
		t.Fatalf("** got %v, wanted %v", a, e)
	}
}

func deepEqual[T any](t testing.TB, a, e T) {
	if !reflect.DeepEqual(a, e) {
		t.Helper()
		t.Errorf("** got %v, wanted %v", a, e)
	}
}

func ok(t testing.TB, err error) {
	if err != nil {
		t.Helper()
		t.Fatalf("** unexpected error: %v", err)
	}
}

func treesEqual(t testing.TB, a, e any) {
	if !treeEqual(a, e) {
		t.Helper()
		t.Errorf("** got tree %s, wanted %s", treeString(a), treeString(e))
	}
}

func treeString(tree any) string {
	data, err := json.Marshal(tree)
	if err != nil {
		return "<unencodable>"
	}
	return string(data)
}
