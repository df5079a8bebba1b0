package rill_test

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/rcrsr/rill/pkg/rill"
)

// TestExampleFixtures runs every script under examples/ and snapshots its
// logged output and final value with go-snaps. Example scripts only use
// the default context (no host extensions), so their output is
// deterministic.
func TestExampleFixtures(t *testing.T) {
	dir := filepath.Join("..", "..", "examples")
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read examples dir: %v", err)
	}

	var scripts []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".rill") {
			scripts = append(scripts, entry.Name())
		}
	}
	sort.Strings(scripts)
	if len(scripts) == 0 {
		t.Fatalf("no example scripts found in %s", dir)
	}

	for _, name := range scripts {
		t.Run(name, func(t *testing.T) {
			source, err := os.ReadFile(filepath.Join(dir, name))
			if err != nil {
				t.Fatal(err)
			}

			prog, err := rill.Parse(string(source))
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}

			var output strings.Builder
			rc := rill.NewContext(rill.Options{
				OnLog: func(v rill.Value) {
					output.WriteString(v.String())
					output.WriteString("\n")
				},
			})

			result, err := rill.Execute(context.Background(), prog, rc)
			if err != nil {
				t.Fatalf("execute failed: %v", err)
			}

			output.WriteString("-- result --\n")
			output.WriteString(result.Value.String())
			snaps.MatchSnapshot(t, strings.TrimSuffix(name, ".rill")+"_output", output.String())
		})
	}
}
