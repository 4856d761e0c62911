package driver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"docl/internal/env"
	"docl/internal/version"
)

// Current schema version; bump when SnapshotData changes shape.
const snapshotSchema uint16 = 1

// ErrSnapshotSchema is returned for snapshots written by another schema.
var ErrSnapshotSchema = errors.New("snapshot schema mismatch")

// SnapshotName is one resolved name use.
type SnapshotName struct {
	ID     uint32 `msgpack:"id"`
	Text   string `msgpack:"text"`
	Scope  uint32 `msgpack:"scope"`
	Kind   string `msgpack:"kind"`
	Target string `msgpack:"target"`
}

// SnapshotData is the serialised resolution of an environment. Two builds of
// the same program produce byte-identical snapshots.
type SnapshotData struct {
	Schema    uint16         `msgpack:"schema"`
	Analyzer  string         `msgpack:"analyzer"`
	Modules   []string       `msgpack:"modules"`
	Entry     string         `msgpack:"entry,omitempty"`
	EntryType string         `msgpack:"entry_type,omitempty"`
	Names     []SnapshotName `msgpack:"names"`
}

// BuildSnapshot collects the snapshot of e.
func BuildSnapshot(e *env.Environment) *SnapshotData {
	b := e.AST()
	strs := e.Strings()

	data := &SnapshotData{Schema: snapshotSchema, Analyzer: version.Version}
	for _, m := range e.Modules() {
		data.Modules = append(data.Modules, e.ModuleName(m))
	}
	if item, typ := e.Entry(); item.IsValid() {
		data.Entry = e.DeclLabel(item)
		data.EntryType = e.FormatType(typ)
	}

	ids := e.ResolvedNames()
	data.Names = make([]SnapshotName, 0, len(ids))
	for _, id := range ids {
		r, _ := e.Resolved(id)
		name := b.Names.Get(id)
		scope, _ := name.Scope.Get()
		data.Names = append(data.Names, SnapshotName{
			ID:     uint32(id),
			Text:   b.Names.Text(id, strs),
			Scope:  scope,
			Kind:   r.Kind.String(),
			Target: e.Label(r),
		})
	}
	return data
}

// Snapshot encodes the resolution of e with msgpack.
func Snapshot(e *env.Environment) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeSnapshot(&buf, BuildSnapshot(e)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func EncodeSnapshot(w io.Writer, data *SnapshotData) error {
	enc := msgpack.NewEncoder(w)
	enc.UseCompactInts(true)
	return enc.Encode(data)
}

// DecodeSnapshot reads a snapshot and checks its schema.
func DecodeSnapshot(r io.Reader) (*SnapshotData, error) {
	var data SnapshotData
	if err := msgpack.NewDecoder(r).Decode(&data); err != nil {
		return nil, err
	}
	if data.Schema != snapshotSchema {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSnapshotSchema, data.Schema, snapshotSchema)
	}
	return &data, nil
}

// WriteSnapshot stores the snapshot of e at path, replacing any previous
// file atomically.
func WriteSnapshot(path string, e *env.Environment) (err error) {
	dir := filepath.Dir(path)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err = EncodeSnapshot(f, BuildSnapshot(e)); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// ReadSnapshot loads a snapshot written by WriteSnapshot.
func ReadSnapshot(path string) (*SnapshotData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeSnapshot(f)
}
