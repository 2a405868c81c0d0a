// Command snapdump prints a stored assembly snapshot: parts, anchors, fin
// rails, mass and the flattened export.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"rocket-assembler/internal/assembly"
	"rocket-assembler/internal/part"
	"rocket-assembler/internal/persist"
	"rocket-assembler/internal/snap"
)

func main() {
	backend := flag.String("backend", "file", "Snapshot backend: file or sqlite")
	path := flag.String("path", persist.DefaultPath("snapshots.json"), "Backend path")
	key := flag.String("key", persist.DefaultKey, "Snapshot key")
	asJSON := flag.Bool("json", false, "Print the flattened export as JSON")
	list := flag.Bool("list", false, "List snapshot keys in an sqlite database and exit")
	flag.Parse()

	if *list {
		if err := listKeys(os.Stdout, *path); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list keys: %v\n", err)
			os.Exit(1)
		}
		return
	}

	store, closer, err := persist.Open(persist.Config{Backend: *backend, Path: *path, Key: *key})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open %s: %v\n", *path, err)
		os.Exit(1)
	}
	defer closer.Close()

	data, err := store.Load()
	if err != nil && !errors.Is(err, persist.ErrNotFound) {
		fmt.Fprintf(os.Stderr, "Failed to load snapshot: %v\n", err)
		os.Exit(1)
	}
	snapshot := assembly.DecodeSnapshot(data)

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(assembly.Flatten(snapshot.Assembly)); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode: %v\n", err)
			os.Exit(1)
		}
		return
	}
	dump(os.Stdout, snapshot)
}

func listKeys(w io.Writer, path string) error {
	db, err := persist.OpenSQLite(path)
	if err != nil {
		return err
	}
	defer db.Close()

	keys, err := db.Keys()
	if err != nil {
		return err
	}
	for _, k := range keys {
		fmt.Fprintln(w, k)
	}
	return nil
}

func dump(w io.Writer, s assembly.Snapshot) {
	parts := s.Assembly
	fmt.Fprintf(w, "=== Parts (%d) ===\n", len(parts))
	for _, p := range parts {
		fmt.Fprintf(w, "  %-20s %-10s pos=(%.2f, %.2f, %.2f) rot=(%.3f, %.3f, %.3f)",
			p.ID, p.Kind, p.Position[0], p.Position[1], p.Position[2],
			p.Rotation[0], p.Rotation[1], p.Rotation[2])
		if parent := p.Params.Parent(); parent != "" {
			fmt.Fprintf(w, " parent=%s", parent)
		}
		if p.Kind == part.KindFin {
			fmt.Fprintf(w, " placed=%v", p.IsFinPlaced())
		}
		fmt.Fprintln(w)
	}
	if s.SelectedID != nil {
		fmt.Fprintf(w, "Selected: %s\n", *s.SelectedID)
	}
	fmt.Fprintf(w, "Last drop: (%.2f, %.2f, %.2f)\n", s.LastDropPosition[0], s.LastDropPosition[1], s.LastDropPosition[2])
	fmt.Fprintf(w, "History: %d entries\n", len(s.History))

	anchors := snap.Anchors(parts)
	fmt.Fprintf(w, "\n=== Anchors (%d) ===\n", len(anchors))
	for _, a := range anchors {
		fmt.Fprintf(w, "  %-30s (%.2f, %.2f, %.2f)\n", a.ID, a.Logical[0], a.Logical[1], a.Logical[2])
	}

	for _, p := range parts {
		if p.Kind != part.KindFin {
			continue
		}
		rails := snap.Rails(p, parts)
		fmt.Fprintf(w, "\n=== Rails for %s (%d) ===\n", p.ID, len(rails))
		for _, r := range rails {
			fmt.Fprintf(w, "  [%d] angle=%.3f long=[%.2f, %.2f]\n", r.Index, r.Angle, r.Start[0], r.End[0])
		}
	}

	fmt.Fprintf(w, "\nTotal mass: %.2f\n", assembly.TotalMass(parts))
}
