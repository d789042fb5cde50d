package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseBandwidth(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"", 0, false},
		{"1024", 1024, false},
		{"10K", 10 * 1024, false},
		{"10k", 10 * 1024, false},
		{"10M", 10 * 1024 * 1024, false},
		{"1G", 1024 * 1024 * 1024, false},
		{"abc", 0, true},
		{"10X", 0, true},
		{"-5M", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseBandwidth(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseBandwidth(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseBandwidth(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidateComparePaths(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "source")
	target := filepath.Join(dir, "target")
	for _, d := range []string{source, target} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("valid pair", func(t *testing.T) {
		if err := validateComparePaths(source, target); err != nil {
			t.Errorf("error = %v, want nil", err)
		}
	})

	t.Run("missing path", func(t *testing.T) {
		if err := validateComparePaths(source, filepath.Join(dir, "missing")); err == nil {
			t.Error("missing target should fail")
		}
	})

	t.Run("identical paths", func(t *testing.T) {
		if err := validateComparePaths(source, source); err == nil {
			t.Error("identical paths should fail")
		}
	})

	t.Run("nested paths", func(t *testing.T) {
		nested := filepath.Join(source, "inner")
		if err := os.MkdirAll(nested, 0755); err != nil {
			t.Fatal(err)
		}
		if err := validateComparePaths(source, nested); err == nil {
			t.Error("nested target should fail")
		}
		if err := validateComparePaths(nested, source); err == nil {
			t.Error("nested source should fail")
		}
	})

	t.Run("file instead of directory", func(t *testing.T) {
		file := filepath.Join(dir, "file.txt")
		if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		if err := validateComparePaths(file, target); err == nil {
			t.Error("file source should fail")
		}
	})
}

func TestValidateSortPath(t *testing.T) {
	dir := t.TempDir()

	if err := validateSortPath(dir); err != nil {
		t.Errorf("error = %v, want nil", err)
	}
	if err := validateSortPath(filepath.Join(dir, "missing")); err == nil {
		t.Error("missing path should fail")
	}

	file := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := validateSortPath(file); err == nil {
		t.Error("file path should fail")
	}
}
