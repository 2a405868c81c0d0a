package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rocket-assembler/internal/assembly"
	"rocket-assembler/internal/part"
	"rocket-assembler/internal/persist"
	"rocket-assembler/pkg/geometry"
)

func TestDump(t *testing.T) {
	store := assembly.New()
	body := part.CatalogEntry{ID: "body", Kind: part.KindBody, Params: part.Params{
		part.ParamLength: 24.0, part.ParamRadius: 2.0, part.ParamMass: 30.0,
	}}
	fins := part.CatalogEntry{ID: "fins", Kind: part.KindFin, Params: part.Params{
		part.ParamRootChord: 6.0, part.ParamTipChord: 2.0, part.ParamSpan: 4.0,
		part.ParamFinCount: 3, part.ParamMass: 2.0, part.ParamParent: "body",
	}}
	origin := geometry.V3(0, 0, 0)
	store.Place(body, &origin)
	store.Place(fins, nil)

	var buf bytes.Buffer
	dump(&buf, store.Snapshot())
	out := buf.String()

	assert.Contains(t, out, "=== Parts (2) ===")
	assert.Contains(t, out, "parent=body")
	assert.Contains(t, out, "Selected: fins")
	assert.Contains(t, out, "=== Rails for fins (3) ===")
	assert.Contains(t, out, "Total mass: 36.00")
}

func TestDumpEmpty(t *testing.T) {
	var buf bytes.Buffer
	dump(&buf, assembly.DecodeSnapshot(nil))
	assert.Contains(t, buf.String(), "=== Parts (0) ===")
	assert.Contains(t, buf.String(), "History: 0 entries")
}

func TestListKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshots.db")
	db, err := persist.OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, db.Put("second", []byte(`{}`)))
	require.NoError(t, db.Put("first", []byte(`{}`)))
	require.NoError(t, db.Close())

	var buf bytes.Buffer
	require.NoError(t, listKeys(&buf, path))
	assert.Equal(t, "first\nsecond\n", buf.String())
}
