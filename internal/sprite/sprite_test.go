package sprite

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"alleycats/internal/rgb"
)

func TestDefaultSprite(t *testing.T) {
	s := Default()
	if s.Size != 32 {
		t.Fatalf("Size = %d, want 32", s.Size)
	}
	if s.BaseHue != rgb.Hex("#f07010") {
		t.Errorf("BaseHue = %v", s.BaseHue)
	}
	if _, ok := s.At(0, 0); ok {
		t.Error("corner pixel should be transparent")
	}

	opaque := 0
	for r := 0; r < s.Size; r++ {
		for c := 0; c < s.Size; c++ {
			if _, ok := s.At(r, c); ok {
				opaque++
			}
		}
	}
	if opaque < 200 {
		t.Errorf("only %d opaque pixels, sprite looks empty", opaque)
	}

	if c, ok := s.Color('1'); !ok || c != s.BaseHue {
		t.Errorf("index 1 = %v/%v, want base hue", c, ok)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{
			name: "row count",
			doc:  "size: 2\npalette: {\"1\": \"#ffffff\"}\nrows: [\"11\"]\n",
			want: ErrBadSize,
		},
		{
			name: "row width",
			doc:  "size: 2\npalette: {\"1\": \"#ffffff\"}\nrows: [\"11\", \"1\"]\n",
			want: ErrBadSize,
		},
		{
			name: "unknown index",
			doc:  "size: 2\npalette: {\"1\": \"#ffffff\"}\nrows: [\"11\", \"12\"]\n",
			want: ErrUnknownIndex,
		},
		{
			name: "long palette key",
			doc:  "size: 1\npalette: {\"12\": \"#ffffff\"}\nrows: [\"0\"]\n",
			want: ErrUnknownIndex,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiny.yaml")
	doc := "name: tiny\nsize: 2\nbase_hue: \"#ff0000\"\npalette:\n  \"1\": \"#ff0000\"\nrows:\n  - \"10\"\n  - \"01\"\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadOrDefault(path)
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	if s.Name != "tiny" || s.Size != 2 {
		t.Fatalf("got %s/%d", s.Name, s.Size)
	}
	if c, ok := s.At(1, 1); !ok || c != (rgb.Color{R: 255}) {
		t.Errorf("At(1,1) = %v/%v", c, ok)
	}

	s, err = LoadOrDefault(filepath.Join(dir, "missing.yaml"))
	if err == nil {
		t.Error("expected error for missing file")
	}
	if s == nil || s.Name != "cat" {
		t.Error("missing file should fall back to the embedded cat")
	}
}
