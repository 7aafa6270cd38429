package filesystem

import (
	"os"
	"path/filepath"
	"testing"
)

// TestWriteFileAtomic tests atomic file writing.
func TestWriteFileAtomic(t *testing.T) {
	// Compute a target path.
	path := filepath.Join(t.TempDir(), "target")

	// Perform an atomic write.
	if err := WriteFileAtomic(path, []byte("contents"), 0600); err != nil {
		t.Fatal("unable to write file atomically:", err)
	}

	// Verify the file contents.
	if data, err := os.ReadFile(path); err != nil {
		t.Fatal("unable to read written file:", err)
	} else if string(data) != "contents" {
		t.Error("written contents incorrect:", string(data))
	}

	// Overwrite the file and verify the replacement.
	if err := WriteFileAtomic(path, []byte("replaced"), 0600); err != nil {
		t.Fatal("unable to overwrite file atomically:", err)
	}
	if data, err := os.ReadFile(path); err != nil {
		t.Fatal("unable to read overwritten file:", err)
	} else if string(data) != "replaced" {
		t.Error("overwritten contents incorrect:", string(data))
	}
}

// TestSubdirectoryNames tests subdirectory enumeration.
func TestSubdirectoryNames(t *testing.T) {
	// Create a directory with two subdirectories and a file.
	directory := t.TempDir()
	if err := os.Mkdir(filepath.Join(directory, "alpha"), 0700); err != nil {
		t.Fatal("unable to create subdirectory:", err)
	}
	if err := os.Mkdir(filepath.Join(directory, "beta"), 0700); err != nil {
		t.Fatal("unable to create subdirectory:", err)
	}
	if err := os.WriteFile(filepath.Join(directory, "file"), nil, 0600); err != nil {
		t.Fatal("unable to create file:", err)
	}

	// Enumerate subdirectories.
	names, err := SubdirectoryNames(directory)
	if err != nil {
		t.Fatal("unable to enumerate subdirectories:", err)
	}

	// Verify that only the subdirectories were returned.
	if len(names) != 2 {
		t.Fatal("unexpected number of subdirectories:", len(names))
	}
	seen := map[string]bool{}
	for _, name := range names {
		seen[name] = true
	}
	if !seen["alpha"] || !seen["beta"] {
		t.Error("expected subdirectories not enumerated:", names)
	}
}

// TestRealDirectory tests canonical directory resolution.
func TestRealDirectory(t *testing.T) {
	// Verify resolution of an existing directory.
	directory := t.TempDir()
	resolved, err := RealDirectory(directory)
	if err != nil {
		t.Fatal("unable to resolve existing directory:", err)
	}
	if info, err := os.Stat(resolved); err != nil {
		t.Fatal("unable to probe resolved path:", err)
	} else if !info.IsDir() {
		t.Error("resolved path is not a directory")
	}

	// Verify that a non-existent path is rejected.
	if _, err := RealDirectory(filepath.Join(directory, "missing")); err == nil {
		t.Error("non-existent path resolved unexpectedly")
	}

	// Verify that a file path is rejected.
	file := filepath.Join(directory, "file")
	if err := os.WriteFile(file, nil, 0600); err != nil {
		t.Fatal("unable to create file:", err)
	}
	if _, err := RealDirectory(file); err == nil {
		t.Error("file path resolved as directory unexpectedly")
	}
}
