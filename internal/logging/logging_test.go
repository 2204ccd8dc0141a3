package logging

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
		{"trace", zerolog.TraceLevel},
		{"", zerolog.InfoLevel},
		{"loud", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestInitConsole(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.GlobalLevel())

	var buf bytes.Buffer
	closeFn, err := Init(Config{Level: "warn", Console: &buf, NoColor: true})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer closeFn()

	log.Info().Msg("hidden")
	log.Warn().Str("camera", "Cam").Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line written at warn level:\n%s", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "camera=Cam") {
		t.Errorf("warn line missing:\n%s", out)
	}
}

func TestInitFile(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.GlobalLevel())

	path := filepath.Join(t.TempDir(), "logs", "projbox.log")
	closeFn, err := Init(Config{Level: "debug", File: path, Console: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	log.Debug().Int("points", 8).Msg("to file")
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), `"points":8`) {
		t.Errorf("file log = %s", data)
	}
}

func TestTimed(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.GlobalLevel())

	var buf bytes.Buffer
	if _, err := Init(Config{Level: "debug", Console: &buf, NoColor: true}); err != nil {
		t.Fatalf("Init: %v", err)
	}

	boom := errors.New("boom")
	if err := Timed("step", func() error { return boom }); !errors.Is(err, boom) {
		t.Errorf("Timed err = %v", err)
	}
	if !strings.Contains(buf.String(), "elapsed=") {
		t.Errorf("missing elapsed field:\n%s", buf.String())
	}
}
