package ufokit

import "github.com/google/uuid"

// ObjectLibsKey is the lib key under which per-object libs are stored,
// keyed by object identifier.
const ObjectLibsKey = "public.objectLibs"

// HasIdentifier is implemented by every glyph sub-object that can carry
// an identifier (anchors, guidelines, contours, points, components).
type HasIdentifier interface {
	ObjectIdentifier() string
	SetObjectIdentifier(id string)
}

// ObjectLib returns the lib attached to obj inside parent, creating it
// (and assigning obj a fresh identifier) as needed. parent is typically
// a glyph's lib and obj one of its sub-objects.
func ObjectLib(parent Lib, obj HasIdentifier) map[string]any {
	if obj.ObjectIdentifier() == "" {
		obj.SetObjectIdentifier(uuid.NewString())
	}
	objectLibs, ok := parent[ObjectLibsKey].(map[string]any)
	if !ok {
		objectLibs = make(map[string]any)
		parent[ObjectLibsKey] = objectLibs
	}
	lib, ok := objectLibs[obj.ObjectIdentifier()].(map[string]any)
	if !ok {
		lib = make(map[string]any)
		objectLibs[obj.ObjectIdentifier()] = lib
	}
	return lib
}

// PruneObjectLibs drops object libs whose identifier is not in use or
// whose lib is empty. An emptied public.objectLibs entry is removed.
func PruneObjectLibs(parent Lib, identifiers map[string]struct{}) {
	objectLibs, ok := parent[ObjectLibsKey].(map[string]any)
	if !ok {
		return
	}
	for id, v := range objectLibs {
		if _, used := identifiers[id]; !used {
			delete(objectLibs, id)
			continue
		}
		if m, ok := v.(map[string]any); ok && len(m) == 0 {
			delete(objectLibs, id)
		}
	}
	if len(objectLibs) == 0 {
		delete(parent, ObjectLibsKey)
	}
}

// glyphIdentifiers collects every identifier in use inside a glyph.
func glyphIdentifiers(g *Glyph) map[string]struct{} {
	ids := make(map[string]struct{})
	add := func(id string) {
		if id != "" {
			ids[id] = struct{}{}
		}
	}
	for i := range g.Anchors {
		add(g.Anchors[i].Identifier)
	}
	for i := range g.Guidelines {
		add(g.Guidelines[i].Identifier)
	}
	for i := range g.Contours {
		add(g.Contours[i].Identifier)
		for j := range g.Contours[i].Points {
			add(g.Contours[i].Points[j].Identifier)
		}
	}
	for i := range g.Components {
		add(g.Components[i].Identifier)
	}
	return ids
}
