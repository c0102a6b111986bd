package output

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCheckPath(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"types.go", false},
		{"sub/dir/file.go", false},
		{"", true},
		{"/etc/passwd", true},
		{"../escape.go", true},
		{"..", true},
		{"a/../../b", true},
		{"./types.go", true},
		{"a//b", true},
	}

	for _, test := range tests {
		err := CheckPath(test.input)
		if (err != nil) != test.wantErr {
			t.Errorf("CheckPath(%q) error = %v, wantErr %v", test.input, err, test.wantErr)
		}
	}
}

func TestFilesystemWritesAtomically(t *testing.T) {
	root := t.TempDir()
	s := NewFilesystem(root)
	ctx := context.Background()

	if err := s.WriteFile(ctx, "pkg/types.go", []byte("package pkg\n")); err != nil {
		t.Fatal(err)
	}
	if err := s.WriteFile(ctx, "pkg/types.go", []byte("package pkg // v2\n")); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(root, "pkg", "types.go"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "package pkg // v2\n" {
		t.Errorf("content = %q", data)
	}

	entries, err := os.ReadDir(filepath.Join(root, "pkg"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}

	if err := s.WriteFile(ctx, "../out.go", nil); err == nil {
		t.Error("expected error for an escaping path")
	}
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	content := []byte("a")
	if err := m.WriteFile(ctx, "b.go", content); err != nil {
		t.Fatal(err)
	}
	content[0] = 'x'
	if err := m.WriteFile(ctx, "a.go", nil); err != nil {
		t.Fatal(err)
	}

	if got := string(m.Get("b.go")); got != "a" {
		t.Errorf("Get() = %q, content was not copied", got)
	}
	if m.Get("missing.go") != nil {
		t.Error("Get() of a missing file should be nil")
	}
	if diff := cmp.Diff([]string{"a.go", "b.go"}, m.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := m.WriteFile(cancelled, "c.go", nil); err == nil {
		t.Error("expected context error")
	}
}
