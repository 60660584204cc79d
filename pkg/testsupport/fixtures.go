package testsupport

import (
	_ "embed"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-pokedex/pokemon"
	"github.com/stretchr/testify/assert"
)

var update = flag.Bool("update", false, "rewrite golden files with the actual output")

//go:embed testdata/pokemon.json
var starterJSON []byte

// Starters returns the canonical seed records, ordered by id.
func Starters(t testing.TB) []pokemon.Pokemon {
	t.Helper()

	var records []pokemon.Pokemon
	if err := json.Unmarshal(starterJSON, &records); err != nil {
		t.Fatalf("failed to decode seed records: %v", err)
	}
	return records
}

// LoadFixture loads test data from a fixture file.
// The path is relative to the test package directory.
func LoadFixture(t testing.TB, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to load fixture from %s: %v", path, err)
	}

	return data
}

// LoadFixtureJSON loads JSON test data from a fixture file and unmarshals it.
func LoadFixtureJSON(t testing.TB, path string, dest any) {
	t.Helper()

	data := LoadFixture(t, path)
	if err := json.Unmarshal(data, dest); err != nil {
		t.Fatalf("failed to unmarshal JSON fixture from %s: %v", path, err)
	}
}

// AssertGoldenJSON compares a JSON document with the golden file at path,
// ignoring formatting. A missing golden file, or running with -update, writes
// actual to path instead.
func AssertGoldenJSON(t testing.TB, path string, actual []byte) {
	t.Helper()

	expected, err := os.ReadFile(path)
	if *update || os.IsNotExist(err) {
		writeGolden(t, path, actual)
		return
	}
	if err != nil {
		t.Fatalf("failed to read golden file %s: %v", path, err)
	}

	assert.JSONEq(t, string(expected), string(actual), "output mismatch for %s", path)
}

func writeGolden(t testing.TB, path string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write golden file to %s: %v", path, err)
	}
	t.Logf("wrote golden file %s", path)
}

// FixturePath constructs a path to a fixture file relative to the testdata directory.
func FixturePath(filename string) string {
	return filepath.Join("testdata", filename)
}

// GoldenPath constructs a path to a golden file relative to the testdata directory.
func GoldenPath(filename string) string {
	return filepath.Join("testdata", "golden", filename)
}
