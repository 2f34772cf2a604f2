package config

import (
	"errors"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("got %+v want %+v", cfg, Default())
	}
}

func TestLoadEnvAndFlags(t *testing.T) {
	t.Setenv("CHESS_ADDR", ":8080")
	t.Setenv("CHESS_DEFAULT_DEPTH", "2")
	t.Setenv("CHESS_SEARCH_TIMEOUT", "3s")

	cfg, err := Load([]string{"-depth", "4", "-log-level", "debug"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("addr from env: got %q", cfg.Addr)
	}
	if cfg.Engine.DefaultDepth != 4 {
		t.Fatalf("flag should override env depth, got %d", cfg.Engine.DefaultDepth)
	}
	if cfg.Engine.SearchTimeout != 3*time.Second {
		t.Fatalf("timeout from env: got %s", cfg.Engine.SearchTimeout)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("log level: got %q", cfg.LogLevel)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{"depth above max", []string{"-depth", "9"}, nil},
		{"zero depth", []string{"-depth", "0"}, nil},
		{"bad env depth", nil, map[string]string{"CHESS_DEFAULT_DEPTH": "deep"}},
		{"bad env timeout", nil, map[string]string{"CHESS_SEARCH_TIMEOUT": "soon"}},
		{"negative timeout", []string{"-search-timeout", "-1s"}, nil},
		{"log level", []string{"-log-level", "loud"}, nil},
		{"unknown flag", []string{"-fast"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(tt.args); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}

func TestResolveDepth(t *testing.T) {
	e := Default().Engine
	tests := []struct {
		depth      int
		difficulty string
		want       int
		err        error
	}{
		{0, "", 3, nil},
		{0, "easy", 1, nil},
		{0, "Medium", 2, nil},
		{0, "hard", 3, nil},
		{5, "easy", 5, nil},
		{6, "", 0, ErrInvalidDepth},
		{-1, "", 0, ErrInvalidDepth},
		{0, "grandmaster", 0, ErrUnknownDifficulty},
	}
	for _, tt := range tests {
		got, err := e.ResolveDepth(tt.depth, tt.difficulty)
		if tt.err != nil {
			if !errors.Is(err, tt.err) {
				t.Fatalf("ResolveDepth(%d, %q): expected %v, got %v", tt.depth, tt.difficulty, tt.err, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("ResolveDepth(%d, %q) = %d, %v; want %d", tt.depth, tt.difficulty, got, err, tt.want)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	if lvl, err := ParseLogLevel("WARN"); err != nil || lvl != log.LevelWarn {
		t.Fatalf("got %v, %v", lvl, err)
	}
	if _, err := ParseLogLevel("verbose"); err == nil {
		t.Fatalf("expected an error")
	}
}
