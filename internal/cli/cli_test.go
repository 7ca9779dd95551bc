package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/repopac/repopac/internal/cli"
)

// runCommand executes the root command with the provided arguments and returns
// the report output, the diagnostics output, and the execution error.
func runCommand(t *testing.T, arguments ...string) (string, string, error) {
	t.Helper()
	// Isolate the test from any user-level configuration file.
	t.Setenv("HOME", t.TempDir())
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	command := cli.NewRootCommand(&stdout, &stderr)
	command.SetOut(&stdout)
	command.SetErr(&stderr)
	command.SetArgs(arguments)
	executionError := command.Execute()
	return stdout.String(), stderr.String(), executionError
}

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	if writeError := os.WriteFile(path, []byte(content), 0o644); writeError != nil {
		t.Fatalf("write %s: %v", path, writeError)
	}
}

func TestUnknownOptionFails(t *testing.T) {
	_, _, executionError := runCommand(t, "--definitely-not-a-flag")
	if executionError == nil {
		t.Fatal("expected an error for an unknown option")
	}
	if !strings.Contains(executionError.Error(), "definitely-not-a-flag") {
		t.Fatalf("error must name the offending option, got %v", executionError)
	}
}

func TestVersionFlagShortCircuits(t *testing.T) {
	for _, flag := range []string{"--version", "-v"} {
		t.Run(flag, func(t *testing.T) {
			stdout, _, executionError := runCommand(t, flag, "some-ignored-path")
			if executionError != nil {
				t.Fatalf("unexpected error: %v", executionError)
			}
			if !strings.Contains(stdout, "repopac version:") {
				t.Fatalf("expected version output, got %q", stdout)
			}
			if strings.Contains(stdout, "Repository Context") {
				t.Fatalf("version must not produce a report, got %q", stdout)
			}
		})
	}
}

func TestMissingPathIsDiagnosedNotFatal(t *testing.T) {
	missingPath := filepath.Join(t.TempDir(), "nope")
	stdout, stderr, executionError := runCommand(t, missingPath)
	if executionError != nil {
		t.Fatalf("a missing path must not fail the run, got %v", executionError)
	}
	if !strings.Contains(stderr, missingPath) {
		t.Fatalf("expected a diagnostic naming %s, got %q", missingPath, stderr)
	}
	if strings.Contains(stdout, "## File Contents") {
		t.Fatalf("missing path must not produce a file contents section, got %q", stdout)
	}
}

func TestDirectoryReport(t *testing.T) {
	rootDirectory := t.TempDir()
	writeFile(t, filepath.Join(rootDirectory, "b.txt"), "second")
	writeFile(t, filepath.Join(rootDirectory, "a.txt"), "first")

	stdout, stderr, executionError := runCommand(t, rootDirectory)
	if executionError != nil {
		t.Fatalf("unexpected error: %v", executionError)
	}
	if stderr != "" {
		t.Fatalf("unexpected diagnostics: %q", stderr)
	}
	firstIndex := strings.Index(stdout, "### File: "+filepath.Join(rootDirectory, "a.txt"))
	secondIndex := strings.Index(stdout, "### File: "+filepath.Join(rootDirectory, "b.txt"))
	if firstIndex < 0 || secondIndex < 0 || firstIndex > secondIndex {
		t.Fatalf("expected a.txt before b.txt in:\n%s", stdout)
	}
	if !strings.HasPrefix(stdout, "# Repository Context\n") {
		t.Fatalf("report must start with the top-level heading, got %q", stdout[:40])
	}
}

func TestSingleFileTarget(t *testing.T) {
	directory := t.TempDir()
	filePath := filepath.Join(directory, "data.json")
	writeFile(t, filePath, `{"key":true}`)

	stdout, _, executionError := runCommand(t, filePath)
	if executionError != nil {
		t.Fatalf("unexpected error: %v", executionError)
	}
	if strings.Contains(stdout, "# Repository Context") {
		t.Fatalf("file target must skip repository sections:\n%s", stdout)
	}
	if !strings.Contains(stdout, "```json\n") {
		t.Fatalf("expected json fence in:\n%s", stdout)
	}
}

func TestMultipleTargetsConcatenateInOrder(t *testing.T) {
	firstDirectory := t.TempDir()
	secondDirectory := t.TempDir()
	writeFile(t, filepath.Join(firstDirectory, "one.txt"), "1")
	writeFile(t, filepath.Join(secondDirectory, "two.txt"), "2")

	stdout, _, executionError := runCommand(t, firstDirectory, secondDirectory)
	if executionError != nil {
		t.Fatalf("unexpected error: %v", executionError)
	}
	firstIndex := strings.Index(stdout, filepath.ToSlash(firstDirectory))
	secondIndex := strings.Index(stdout, filepath.ToSlash(secondDirectory))
	if firstIndex < 0 || secondIndex < 0 || firstIndex > secondIndex {
		t.Fatalf("expected targets in argument order in:\n%s", stdout)
	}
	if count := strings.Count(stdout, "# Repository Context"); count != 2 {
		t.Fatalf("expected two report segments, got %d", count)
	}
}

func TestMissingPathAmongValidTargets(t *testing.T) {
	rootDirectory := t.TempDir()
	writeFile(t, filepath.Join(rootDirectory, "kept.txt"), "kept")
	missingPath := filepath.Join(t.TempDir(), "gone")

	stdout, stderr, executionError := runCommand(t, missingPath, rootDirectory)
	if executionError != nil {
		t.Fatalf("unexpected error: %v", executionError)
	}
	if !strings.Contains(stderr, missingPath) {
		t.Fatalf("expected diagnostic for %s, got %q", missingPath, stderr)
	}
	if !strings.Contains(stdout, "kept.txt") {
		t.Fatalf("remaining targets must still be processed:\n%s", stdout)
	}
}

func TestSummaryFlagAppendsSummary(t *testing.T) {
	rootDirectory := t.TempDir()
	writeFile(t, filepath.Join(rootDirectory, "a.txt"), "12345")

	stdout, _, executionError := runCommand(t, "--summary", rootDirectory)
	if executionError != nil {
		t.Fatalf("unexpected error: %v", executionError)
	}
	if !strings.Contains(stdout, "## Summary\n") {
		t.Fatalf("expected summary section in:\n%s", stdout)
	}
	if !strings.Contains(stdout, "Files: 1\n") {
		t.Fatalf("expected file count in:\n%s", stdout)
	}
	if !strings.Contains(stdout, "Total size: 5b\n") {
		t.Fatalf("expected total size in:\n%s", stdout)
	}
}

func TestDefaultSummaryOff(t *testing.T) {
	rootDirectory := t.TempDir()
	writeFile(t, filepath.Join(rootDirectory, "a.txt"), "x")

	stdout, _, executionError := runCommand(t, rootDirectory)
	if executionError != nil {
		t.Fatalf("unexpected error: %v", executionError)
	}
	if strings.Contains(stdout, "## Summary") {
		t.Fatalf("summary must be off by default:\n%s", stdout)
	}
}
