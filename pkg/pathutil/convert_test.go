package pathutil

import (
	"path/filepath"
	"testing"
)

func TestToRelative(t *testing.T) {
	root := filepath.FromSlash("/home/user/project")

	tests := []struct {
		name string
		path string
		want string
	}{
		{"inside root", filepath.FromSlash("/home/user/project/src/main.go"), filepath.FromSlash("src/main.go")},
		{"root itself", root, "."},
		{"outside root", filepath.FromSlash("/other/location/file.go"), filepath.FromSlash("/other/location/file.go")},
		{"already relative", filepath.FromSlash("src/main.go"), filepath.FromSlash("src/main.go")},
		{"empty path", "", ""},
		{"redundant elements", filepath.FromSlash("/home/user/project/./src/../src/main.go"), filepath.FromSlash("src/main.go")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToRelative(tt.path, root); got != tt.want {
				t.Errorf("ToRelative(%q, %q) = %q, want %q", tt.path, root, got, tt.want)
			}
		})
	}
}

func TestToRelativeEmptyRoot(t *testing.T) {
	p := filepath.FromSlash("/home/user/file.go")
	if got := ToRelative(p, ""); got != p {
		t.Errorf("expected path unchanged with empty root, got %q", got)
	}
}
