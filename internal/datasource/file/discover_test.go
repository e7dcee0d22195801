package file

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func mkdirAll(t *testing.T, parts ...string) string {
	t.Helper()
	p := filepath.Join(parts...)
	if err := os.MkdirAll(p, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", p, err)
	}
	return p
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	t.Run("nested_folder_returns_parent", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		mkdirAll(t, root, "datasets", "crm", "source_crm")
		mkdirAll(t, root, "datasets", "erp", "source_erp")

		got, err := Discover(root, "source_crm")
		if err != nil {
			t.Fatalf("Discover: %v", err)
		}
		if want := filepath.Join(root, "datasets", "crm"); got != want {
			t.Fatalf("parent = %q, want %q", got, want)
		}
	})

	t.Run("direct_child_of_root", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		mkdirAll(t, root, "source_crm")

		got, err := Discover(root, "source_crm")
		if err != nil {
			t.Fatalf("Discover: %v", err)
		}
		if got != root {
			t.Fatalf("parent = %q, want %q", got, root)
		}
	})

	t.Run("shallow_match_beats_earlier_nested_one", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		mkdirAll(t, root, "a", "x", "source_crm")
		mkdirAll(t, root, "source_crm")

		got, err := Discover(root, "source_crm")
		if err != nil {
			t.Fatalf("Discover: %v", err)
		}
		if got != root {
			t.Fatalf("parent = %q, want %q", got, root)
		}
	})

	t.Run("sibling_checked_before_descending", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		mkdirAll(t, root, "data", "a", "deep", "source_crm")
		mkdirAll(t, root, "data", "source_crm")

		got, err := Discover(root, "source_crm")
		if err != nil {
			t.Fatalf("Discover: %v", err)
		}
		if want := filepath.Join(root, "data"); got != want {
			t.Fatalf("parent = %q, want %q", got, want)
		}
	})

	t.Run("missing_folder", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		mkdirAll(t, root, "other")

		_, err := Discover(root, "source_crm")
		if !errors.Is(err, ErrSourceNotFound) {
			t.Fatalf("err = %v, want ErrSourceNotFound", err)
		}
	})

	t.Run("missing_root", func(t *testing.T) {
		t.Parallel()
		_, err := Discover(filepath.Join(t.TempDir(), "nope"), "source_crm")
		if !errors.Is(err, ErrSourceNotFound) {
			t.Fatalf("err = %v, want ErrSourceNotFound", err)
		}
	})

	t.Run("file_with_folder_name_is_ignored", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		if err := os.WriteFile(filepath.Join(root, "source_crm"), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Discover(root, "source_crm"); !errors.Is(err, ErrSourceNotFound) {
			t.Fatalf("err = %v, want ErrSourceNotFound", err)
		}
	})
}
