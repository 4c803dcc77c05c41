package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewWithOutput(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("info", &buf).Named("api")
	log.Debug().Msg("hidden")
	log.Info().Str("path", "/user/login").Msg("request")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message written at info level: %s", out)
	}
	for _, want := range []string{`"component":"api"`, `"path":"/user/login"`, `"message":"request"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output %s does not contain %s", out, want)
		}
	}
}

func TestSilent(t *testing.T) {
	// must not panic nor write anywhere
	Silent().Error().Msg("nothing")
}

func TestNamedNil(t *testing.T) {
	var log *Logger
	log.Named("api").Info().Msg("nothing")
}
