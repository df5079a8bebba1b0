package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadVariables(t *testing.T) {
	path := writeFile(t, "vars.yaml", "name: ada\ncount: 3\ntags:\n  - a\n  - b\n")
	varsFile = path
	defer func() { varsFile = "" }()

	variables, err := loadVariables()
	if err != nil {
		t.Fatal(err)
	}
	if got := variables["name"].String(); got != "ada" {
		t.Errorf("name = %q", got)
	}
	if got := variables["count"].String(); got != "3" {
		t.Errorf("count = %q", got)
	}
	if got := variables["tags"].Type(); got != "list" {
		t.Errorf("tags type = %q", got)
	}
}

func TestLoadVariablesEmpty(t *testing.T) {
	varsFile = ""
	variables, err := loadVariables()
	if err != nil || variables != nil {
		t.Errorf("got (%v, %v), want (nil, nil)", variables, err)
	}
}

func TestReadInput(t *testing.T) {
	t.Run("inline eval", func(t *testing.T) {
		evalExpr = "1 + 2"
		defer func() { evalExpr = "" }()
		input, name, err := readInput(nil)
		if err != nil || input != "1 + 2" || name != "<eval>" {
			t.Errorf("got (%q, %q, %v)", input, name, err)
		}
	})
	t.Run("file", func(t *testing.T) {
		path := writeFile(t, "script.rill", "1 -> log\n")
		input, name, err := readInput([]string{path})
		if err != nil || input != "1 -> log\n" || name != path {
			t.Errorf("got (%q, %q, %v)", input, name, err)
		}
	})
	t.Run("neither", func(t *testing.T) {
		if _, _, err := readInput(nil); err == nil {
			t.Errorf("want error when no input is given")
		}
	})
}

func TestRunCommand(t *testing.T) {
	path := writeFile(t, "sum.rill", "[1, 2, 3] -> fold(0) { $@ + $ }\n")
	rootCmd.SetArgs([]string{"run", path})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("run failed: %v", err)
	}
}

func TestRunCommandError(t *testing.T) {
	rootCmd.SetArgs([]string{"run", "-e", `error "boom"`})
	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("run succeeded, want error")
	}
	evalExpr = ""
}

func TestParseCommand(t *testing.T) {
	rootCmd.SetArgs([]string{"parse", "-e", "1 + 2 * 3"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	parseExpr = ""
}
