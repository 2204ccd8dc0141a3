// Package config loads projbox settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/yami-no-senshi/Blender-Python-tools/internal/logging"
	"github.com/yami-no-senshi/Blender-Python-tools/pkg/projection"
	"github.com/yami-no-senshi/Blender-Python-tools/pkg/scene"
)

// Config holds every setting that can come from the environment. Command
// line flags override these values.
type Config struct {
	Render RenderConfig
	Log    LogConfig

	Camera       string `env:"PROJBOX_CAMERA,"`
	Object       string `env:"PROJBOX_OBJECT,"`
	Select       string `env:"PROJBOX_SELECT,"`
	SelectedOnly bool   `env:"PROJBOX_SELECTED_ONLY,false"`
	Workers      int    `env:"PROJBOX_WORKERS,0"`
	FPS          int    `env:"PROJBOX_FPS,30"`
}

// RenderConfig mirrors the render output settings.
type RenderConfig struct {
	ResolutionX  int     `env:"PROJBOX_RES_X,1920"`
	ResolutionY  int     `env:"PROJBOX_RES_Y,1080"`
	PixelAspectX float64 `env:"PROJBOX_PIXEL_ASPECT_X,1"`
	PixelAspectY float64 `env:"PROJBOX_PIXEL_ASPECT_Y,1"`
}

// LogConfig selects log level and file.
type LogConfig struct {
	Level string `env:"PROJBOX_LOG_LEVEL,info"`
	File  string `env:"PROJBOX_LOG_FILE,"`
}

// Projection returns the render settings for the projector.
func (r RenderConfig) Projection() projection.Render {
	return projection.Render{
		ResolutionX:  r.ResolutionX,
		ResolutionY:  r.ResolutionY,
		PixelAspectX: r.PixelAspectX,
		PixelAspectY: r.PixelAspectY,
	}
}

// Logging returns the logger settings.
func (l LogConfig) Logging() logging.Config {
	return logging.Config{Level: l.Level, File: l.File}
}

// Load reads the given .env files (".env" when none are named) into the
// process environment, then decodes Config from it. A missing default
// .env is ignored but a missing named file is an error. Variables already
// set in the environment win over the files.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && (len(files) > 0 || !errors.Is(err, fs.ErrNotExist)) {
		return nil, fmt.Errorf("load env file: %w", err)
	}
	var cfg Config
	if err := Decode(&cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Decode fills the struct pointed to by dst from lookup, following `env`
// tags:
//
//	`env:"KEY"`          required
//	`env:"KEY,default"`  optional, default used when unset or empty
//
// Nested structs are decoded recursively. Supported field kinds are
// string, bool, ints and floats.
func Decode(dst any, lookup func(string) (string, bool)) error {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("decode config: expected pointer to struct, got %T", dst)
	}
	return decodeStruct(v.Elem(), lookup)
}

func decodeStruct(v reflect.Value, lookup func(string) (string, bool)) error {
	t := v.Type()
	for i := range t.NumField() {
		field, sf := v.Field(i), t.Field(i)
		if !sf.IsExported() {
			continue
		}

		if field.Kind() == reflect.Struct {
			if err := decodeStruct(field, lookup); err != nil {
				return err
			}
			continue
		}

		tag := sf.Tag.Get("env")
		if tag == "" {
			continue
		}
		key, def, hasDefault := splitTag(tag)

		raw, ok := lookup(key)
		if !ok || raw == "" {
			if !hasDefault {
				return fmt.Errorf("missing required variable %s (field %s)", key, sf.Name)
			}
			raw = def
		}
		if err := setField(field, raw); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

func splitTag(tag string) (key, def string, hasDefault bool) {
	key, def, hasDefault = strings.Cut(tag, ",")
	return strings.TrimSpace(key), strings.TrimSpace(def), hasDefault
}

func setField(field reflect.Value, raw string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("parse bool %q: %w", raw, err)
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("parse int %q: %w", raw, err)
		}
		field.SetInt(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("parse float %q: %w", raw, err)
		}
		field.SetFloat(f)
	default:
		return fmt.Errorf("unsupported field kind %s", field.Kind())
	}
	return nil
}

// Validate rejects settings the projector cannot use.
func (c *Config) Validate() error {
	if err := c.Render.Projection().Validate(); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}
	if c.Select != "" {
		if _, err := scene.ParseSelection(c.Select); err != nil {
			return err
		}
	}
	return nil
}
