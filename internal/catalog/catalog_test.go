package catalog

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rocket-assembler/internal/part"
	"rocket-assembler/pkg/geometry"
)

const sampleYAML = `
parts:
  - id: body-1
    type: body
    label: Main tube
    params:
      length: 24
      radius: 2
  - id: mm
    type: inner
    label: Motor mount
    internal: true
    params:
      length: 10
      parent: body-1
  - id: nose
    type: nose
    label: Ogive
    params:
      length: "12"
`

func TestParseYAML(t *testing.T) {
	lib, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)
	require.Len(t, lib.Entries, 3)

	body, ok := lib.Get("body-1")
	require.True(t, ok)
	assert.Equal(t, part.KindBody, body.Kind)
	assert.Equal(t, 24.0, body.Params.Length())

	nose, _ := lib.Get("nose")
	assert.Equal(t, 12.0, nose.Params.Length())

	visible := lib.Visible()
	require.Len(t, visible, 2)
	assert.Equal(t, "body-1", visible[0].ID)
	assert.Equal(t, "nose", visible[1].ID)
}

func TestParseBareListAndJSON(t *testing.T) {
	lib, err := Parse([]byte(`[{"id": "n", "type": "nose", "label": "N"}, {"id": "n", "type": "body", "label": "dup"}, {"type": "fin"}]`))
	require.NoError(t, err)
	require.Len(t, lib.Entries, 1)
	assert.Equal(t, part.KindBody, lib.Entries[0].Kind, "later duplicates win")

	_, err = Parse([]byte("parts:\n  - id: x\n    type: wing\n"))
	assert.Error(t, err)
}

func TestSaveAndLoadFile(t *testing.T) {
	lib, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	for _, name := range []string{"catalog.yaml", "catalog.json"} {
		path := filepath.Join(t.TempDir(), name)
		require.NoError(t, lib.SaveFile(path))
		loaded, err := LoadFile(path)
		require.NoError(t, err, name)
		assert.Len(t, loaded.Entries, 3)
		assert.True(t, loaded.Entries[1].Internal)
	}

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestReconcile(t *testing.T) {
	fin := part.NewPlaced(part.CatalogEntry{ID: "fins", Kind: part.KindFin}, geometry.V3(1, 2, 3))
	confirmed := true
	fin.FinPlaced = &confirmed
	fin.FlipRoll = true
	body := part.NewPlaced(part.CatalogEntry{ID: "body", Kind: part.KindBody, Label: "old"}, geometry.V3(4, 5, 6))
	orphan := part.NewPlaced(part.CatalogEntry{ID: "orphan", Kind: part.KindMass}, geometry.Vec3{})
	parts := []part.Placed{fin, body, orphan}

	out, n := Reconcile(parts, []part.CatalogEntry{
		{ID: "fins", Kind: part.KindFin, Label: "new fins", Params: part.Params{part.ParamFinCount: 4}},
		{ID: "body", Kind: part.KindBody, Label: "old"},
		{ID: "extra", Kind: part.KindNose},
	})
	assert.Equal(t, 1, n)
	require.Len(t, out, 3)

	assert.Equal(t, "new fins", out[0].Label)
	assert.Equal(t, geometry.V3(1, 2, 3), out[0].Position)
	assert.True(t, out[0].FlipRoll)
	assert.True(t, out[0].IsFinPlaced())

	assert.Equal(t, parts[1], out[1])
	assert.Equal(t, parts[2], out[2])
	assert.Equal(t, "", parts[0].Label, "input untouched")
}

type recorder struct {
	mu    sync.Mutex
	calls [][]part.CatalogEntry
}

func (r *recorder) ReconcileCatalog(entries []part.CatalogEntry) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, entries)
	return 0
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func TestPollerDeliversOnlyChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	rec := &recorder{}
	p := NewPoller(path, time.Hour, rec, nil)

	changed, err := p.Check()
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = p.Check()
	require.NoError(t, err)
	assert.False(t, changed, "same mod time")

	// Same content with a new mod time is still unchanged.
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))
	changed, err = p.Check()
	require.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, os.WriteFile(path, []byte(sampleYAML+"  - id: extra\n    type: mass\n"), 0o644))
	evenLater := later.Add(time.Minute)
	require.NoError(t, os.Chtimes(path, evenLater, evenLater))
	changed, err = p.Check()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 2, rec.count())
	assert.Len(t, rec.calls[1], 4)
}

func TestPollerStartStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	rec := &recorder{}
	p := NewPoller(path, 10*time.Millisecond, rec, nil)
	p.Start(context.Background())
	assert.Equal(t, 1, rec.count(), "initial check runs synchronously")

	require.NoError(t, os.WriteFile(path, []byte("- id: only\n  type: body\n"), 0o644))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))

	assert.Eventually(t, func() bool { return rec.count() == 2 }, time.Second, 5*time.Millisecond)
	p.Stop()
	p.Stop()
}
