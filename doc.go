/*
Package ufokit implements an in-memory object model for UFO-like font
sources: fonts, layers, glyphs, contours, metadata and binary attachments,
with lazy loading of expensive sub-resources and round-trip serialization
to JSON, MessagePack and gob.

We implement:

1. Lazy resource stores (DataSet, ImageSet) that enumerate their keys up
front but read payloads from the backing store only on first access, at
most once per key.

2. Lazy entity collections (LayerSet, Layer) that load layers and glyphs
on demand through the same pattern.

3. A structuring engine (Converter) that turns entities into a generic
serializable tree and back, driven by per-type field descriptor tables
(rename, omit-if-default, required fields) with custom codecs for types
whose external shape is not a plain field map.

4. Format adapters in the serde subpackages, each pairing the structuring
engine with an ordered tree reader/writer for one wire format.

# Storage collaborators

The on-disk directory format is out of scope. Reading and writing go
through the Reader/Writer interfaces in storage.go; MemStore and BoltStore
are the bundled implementations. A store's reader handle is exclusively
owned by the object graph that was read from it.

# Concurrency

The model assumes a single mutator at a time. There is no internal
locking; a lazy Get may perform blocking I/O on first access and never
again for that key. Deep copies are always fully materialized and hold no
reference to the original's reader, so two independent graphs never share
a storage handle.

# Write semantics

Write operations take an explicit saveAs flag. With saveAs=false (updating
the same backing store in place) only materialized entries are written and
pending deletions are applied; untouched lazy entries are left alone on
disk. With saveAs=true every entry is materialized first, because the
destination has none of the old data.
*/
package ufokit
