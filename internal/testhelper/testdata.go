// Package testhelper loads recorded API fixtures and golden files from a
// package's testdata directory.
package testhelper

import (
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/agentstation/deskbridge/pkg/constants"
)

// UpdateGolden rewrites golden files instead of comparing against them.
var UpdateGolden = flag.Bool("update", false, "update golden files")

// LoadTestdata reads a file from the caller's testdata directory.
func LoadTestdata(t *testing.T, filename string) []byte {
	t.Helper()

	path := filepath.Join("testdata", filename)
	data, err := os.ReadFile(path) //nolint:gosec // Test file paths are controlled
	if err != nil {
		t.Fatalf("Failed to load testdata file %s: %v", path, err)
	}
	return data
}

// Fixture returns a recorded response body as a string, ready to hand to a
// scripted transport.
func Fixture(t *testing.T, filename string) string {
	t.Helper()
	return string(LoadTestdata(t, filename))
}

// LoadJSON loads and unmarshals JSON from a testdata file.
func LoadJSON(t *testing.T, filename string, v any) {
	t.Helper()

	if err := json.Unmarshal(LoadTestdata(t, filename), v); err != nil {
		t.Fatalf("Failed to unmarshal JSON from testdata file %s: %v", filename, err)
	}
}

// CompareJSONWithGolden compares a raw JSON document with a golden file after
// normalizing both to indented form. With -update the golden file is
// rewritten from actual.
func CompareJSONWithGolden(t *testing.T, filename string, actual []byte) {
	t.Helper()

	got := normalize(t, actual)
	if *UpdateGolden {
		saveTestdata(t, filename, got)
		return
	}

	want := normalize(t, LoadTestdata(t, filename))
	if string(got) != string(want) {
		t.Errorf("JSON does not match golden file %s\nActual:\n%s\nExpected:\n%s", filename, got, want)
	}
}

func normalize(t *testing.T, data []byte) []byte {
	t.Helper()

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("Invalid JSON: %v\n%s", err, data)
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal JSON: %v", err)
	}
	return out
}

func saveTestdata(t *testing.T, filename string, data []byte) {
	t.Helper()

	if err := os.MkdirAll("testdata", constants.DirPermissions); err != nil {
		t.Fatalf("Failed to create testdata directory: %v", err)
	}
	path := filepath.Join("testdata", filename)
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		t.Fatalf("Failed to save testdata file %s: %v", path, err)
	}
	t.Logf("Updated golden file: %s", path)
}
