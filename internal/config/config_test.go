package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/yami-no-senshi/Blender-Python-tools/pkg/projection"
)

func mapLookup(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDecodeDefaults(t *testing.T) {
	var cfg Config
	if err := Decode(&cfg, mapLookup(nil)); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if cfg.Render.ResolutionX != 1920 || cfg.Render.ResolutionY != 1080 {
		t.Errorf("resolution = %dx%d", cfg.Render.ResolutionX, cfg.Render.ResolutionY)
	}
	if cfg.Render.PixelAspectX != 1 || cfg.Render.PixelAspectY != 1 {
		t.Errorf("pixel aspect = %v:%v", cfg.Render.PixelAspectX, cfg.Render.PixelAspectY)
	}
	if cfg.Log.Level != "info" || cfg.Log.File != "" || cfg.Camera != "" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.FPS != 30 || cfg.Workers != 0 || cfg.SelectedOnly {
		t.Errorf("cfg = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestDecodeOverrides(t *testing.T) {
	var cfg Config
	err := Decode(&cfg, mapLookup(map[string]string{
		"PROJBOX_RES_X":          "100",
		"PROJBOX_RES_Y":          "50",
		"PROJBOX_PIXEL_ASPECT_Y": "2.5",
		"PROJBOX_CAMERA":         "Cam",
		"PROJBOX_SELECTED_ONLY":  "true",
		"PROJBOX_SELECT":         "Cube:0-3",
		"PROJBOX_WORKERS":        "4",
		"PROJBOX_LOG_LEVEL":      "debug",
		"PROJBOX_OBJECT":         "", // empty falls back to default
	}))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	want := projection.Render{ResolutionX: 100, ResolutionY: 50, PixelAspectX: 1, PixelAspectY: 2.5}
	if got := cfg.Render.Projection(); got != want {
		t.Errorf("render = %+v, want %+v", got, want)
	}
	if cfg.Camera != "Cam" || !cfg.SelectedOnly || cfg.Workers != 4 || cfg.Log.Level != "debug" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Select != "Cube:0-3" {
		t.Errorf("select = %q", cfg.Select)
	}
	if got := cfg.Log.Logging(); got.Level != "debug" {
		t.Errorf("logging = %+v", got)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad int", map[string]string{"PROJBOX_RES_X": "wide"}},
		{"bad float", map[string]string{"PROJBOX_PIXEL_ASPECT_X": "square"}},
		{"bad bool", map[string]string{"PROJBOX_SELECTED_ONLY": "maybe"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			if err := Decode(&cfg, mapLookup(tt.env)); err == nil {
				t.Error("expected error")
			}
		})
	}

	var notPtr Config
	if err := Decode(notPtr, mapLookup(nil)); err == nil {
		t.Error("expected error for non-pointer")
	}

	var required struct {
		Key string `env:"REQUIRED_KEY"`
	}
	if err := Decode(&required, mapLookup(nil)); err == nil {
		t.Error("expected error for missing required variable")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(*Config)
		want error
	}{
		{"zero width", func(c *Config) { c.Render.ResolutionX = 0 }, projection.ErrInvalidResolution},
		{"negative workers", func(c *Config) { c.Workers = -1 }, nil},
		{"zero fps", func(c *Config) { c.FPS = 0 }, nil},
		{"bad selection", func(c *Config) { c.Select = "Cube:3-1" }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			if err := Decode(&cfg, mapLookup(nil)); err != nil {
				t.Fatalf("Decode: %v", err)
			}
			tt.edit(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("PROJBOX_TEST_RES=1\nPROJBOX_RES_Y=720\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("PROJBOX_RES_Y", "")
	t.Setenv("PROJBOX_RES_X", "640")
	os.Unsetenv("PROJBOX_RES_Y")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Render.ResolutionX != 640 || cfg.Render.ResolutionY != 720 {
		t.Errorf("resolution = %dx%d, want 640x720", cfg.Render.ResolutionX, cfg.Render.ResolutionY)
	}
	os.Unsetenv("PROJBOX_TEST_RES")
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	if _, err := Load(); err != nil {
		t.Errorf("missing default .env should be ignored, got %v", err)
	}
	if _, err := Load(filepath.Join(dir, "absent.env")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing named env file err = %v, want fs.ErrNotExist", err)
	}
}
