package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

var (
	ErrInvalidDepth      = errors.New("invalid search depth")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
)

// difficulties maps the named levels offered to players onto search depths.
var difficulties = map[string]int{
	"easy":   1,
	"medium": 2,
	"hard":   3,
}

type Config struct {
	Addr         string
	AllowOrigins string
	LogLevel     string
	Engine       Engine
}

// Engine holds the search settings shared by every game.
type Engine struct {
	DefaultDepth  int
	MaxDepth      int
	SearchTimeout time.Duration
}

func Default() Config {
	return Config{
		Addr:         ":3000",
		AllowOrigins: "http://localhost:5173",
		LogLevel:     "info",
		Engine: Engine{
			DefaultDepth:  3,
			MaxDepth:      5,
			SearchTimeout: 10 * time.Second,
		},
	}
}

// Load reads flags from args, falling back to CHESS_* environment variables
// and then to Default. Flags win over the environment.
func Load(args []string) (Config, error) {
	cfg := Default()
	env := func(key, fallback string) string {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v
		}
		return fallback
	}
	envInt := func(key string, fallback int) (int, error) {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			return fallback, nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, err)
		}
		return n, nil
	}

	depth, err := envInt("CHESS_DEFAULT_DEPTH", cfg.Engine.DefaultDepth)
	if err != nil {
		return Config{}, err
	}
	maxDepth, err := envInt("CHESS_MAX_DEPTH", cfg.Engine.MaxDepth)
	if err != nil {
		return Config{}, err
	}
	timeout := cfg.Engine.SearchTimeout
	if v := env("CHESS_SEARCH_TIMEOUT", ""); v != "" {
		if timeout, err = time.ParseDuration(v); err != nil {
			return Config{}, fmt.Errorf("CHESS_SEARCH_TIMEOUT: %w", err)
		}
	}

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", env("CHESS_ADDR", cfg.Addr), "listen address")
	fs.StringVar(&cfg.AllowOrigins, "origins", env("CHESS_ALLOW_ORIGINS", cfg.AllowOrigins), "comma separated CORS origins")
	fs.StringVar(&cfg.LogLevel, "log-level", env("CHESS_LOG_LEVEL", cfg.LogLevel), "debug, info, warn or error")
	fs.IntVar(&cfg.Engine.DefaultDepth, "depth", depth, "search depth used when a game does not pick one")
	fs.IntVar(&cfg.Engine.MaxDepth, "max-depth", maxDepth, "deepest search a client may request")
	fs.DurationVar(&cfg.Engine.SearchTimeout, "search-timeout", timeout, "time limit for a single engine move")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Engine.MaxDepth < 1 {
		return fmt.Errorf("%w: max depth %d", ErrInvalidDepth, c.Engine.MaxDepth)
	}
	if err := c.Engine.CheckDepth(c.Engine.DefaultDepth); err != nil {
		return err
	}
	if c.Engine.SearchTimeout <= 0 {
		return fmt.Errorf("search timeout must be positive, got %s", c.Engine.SearchTimeout)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// CheckDepth rejects depths outside [1, MaxDepth].
func (e Engine) CheckDepth(depth int) error {
	if depth < 1 || depth > e.MaxDepth {
		return fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidDepth, depth, e.MaxDepth)
	}
	return nil
}

// ResolveDepth picks the search depth for a new game. An explicit depth wins
// over a named difficulty; neither yields DefaultDepth.
func (e Engine) ResolveDepth(depth int, difficulty string) (int, error) {
	if depth == 0 && difficulty != "" {
		d, ok := difficulties[strings.ToLower(difficulty)]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownDifficulty, difficulty)
		}
		depth = d
	}
	if depth == 0 {
		depth = e.DefaultDepth
	}
	if err := e.CheckDepth(depth); err != nil {
		return 0, err
	}
	return depth, nil
}

func ParseLogLevel(s string) (log.Level, error) {
	switch strings.ToLower(s) {
	case "trace":
		return log.LevelTrace, nil
	case "debug":
		return log.LevelDebug, nil
	case "info", "":
		return log.LevelInfo, nil
	case "warn", "warning":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	}
	return log.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
