package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/atomicstack/tui-mixer/internal/app"
	"github.com/atomicstack/tui-mixer/internal/config/file"
	"github.com/atomicstack/tui-mixer/internal/event"
	"github.com/atomicstack/tui-mixer/internal/theme"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envServer     = "TUI_MIXER_SERVER"
	envConfig     = "TUI_MIXER_CONFIG"
	envPage       = "TUI_MIXER_PAGE"
	envMeters     = "TUI_MIXER_METERS"
	envVolumeStep = "TUI_MIXER_VOLUME_STEP"
	envWidth      = "TUI_MIXER_WIDTH"
	envHeight     = "TUI_MIXER_HEIGHT"
	envShowFooter = "TUI_MIXER_FOOTER"
	envTrace      = "TUI_MIXER_TRACE"
	envLogFile    = "TUI_MIXER_LOG_FILE"
)

const (
	defaultVolumeStep       = 5
	defaultMaxVolumePercent = 150
)

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment. Values come
// from flags, then the environment, then the settings file, then defaults.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	fs := flag.NewFlagSet("tui-mixer", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	server := fs.String("server", envOrDefault(env, envServer, ""), "audio server string, e.g. unix:/run/user/1000/pulse/native (empty uses PULSE_SERVER or the user socket)")
	configPath := fs.String("config", envOrDefault(env, envConfig, ""), "path to the TOML settings file")
	page := fs.String("page", envOrDefault(env, envPage, "output"), "initial page: output, input or cards")
	meters := fs.Bool("meters", envOrBool(env, envMeters, true), "show live peak meters")
	volumeStep := fs.Int("volume-step", envOrInt(env, envVolumeStep, defaultVolumeStep), "volume change per key press, in percent")
	width := fs.Int("width", envOrInt(env, envWidth, 0), "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, 0), "desired viewport height in rows (0 uses terminal height)")
	footer := fs.Bool("footer", envOrBool(env, envShowFooter, true), "show the key hint footer")
	trace := fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	explicit := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
	set := func(flagName, envKey string) bool {
		if explicit[flagName] {
			return true
		}
		_, ok := env[envKey]
		return ok
	}

	path := *configPath
	if path == "" {
		path = file.DefaultPath(env)
	}
	settings, err := file.Load(path)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist) && *configPath == "":
		path = ""
	case errors.Is(err, os.ErrNotExist):
		return Config{}, fmt.Errorf("config file %s not found", path)
	default:
		return Config{}, err
	}

	if settings.VolumeStep != nil && !set("volume-step", envVolumeStep) {
		*volumeStep = *settings.VolumeStep
	}
	if settings.Meters != nil && !set("meters", envMeters) {
		*meters = *settings.Meters
	}
	if settings.Page != "" && !set("page", envPage) {
		*page = settings.Page
	}
	maxVolume := defaultMaxVolumePercent
	if settings.MaxVolumePercent != nil {
		maxVolume = *settings.MaxVolumePercent
	}

	if *width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *width)
	}
	if *height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *height)
	}
	if *volumeStep <= 0 {
		return Config{}, fmt.Errorf("volume-step must be > 0 (got %d)", *volumeStep)
	}
	startPage, err := ParsePage(*page)
	if err != nil {
		return Config{}, err
	}
	styles, err := settings.Theme(theme.Default())
	if err != nil {
		return Config{}, fmt.Errorf("config file %s: %w", path, err)
	}

	cfg := Config{
		App: app.Config{
			Server:           strings.TrimSpace(*server),
			ConfigPath:       path,
			Page:             startPage,
			Meters:           *meters,
			VolumeStep:       *volumeStep,
			MaxVolumePercent: maxVolume,
			Width:            *width,
			Height:           *height,
			ShowFooter:       *footer,
			Styles:           styles,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Flags: map[string]string{
			"server":     strings.TrimSpace(*server),
			"config":     path,
			"page":       startPage.String(),
			"meters":     strconv.FormatBool(*meters),
			"volumeStep": strconv.Itoa(*volumeStep),
			"width":      strconv.Itoa(*width),
			"height":     strconv.Itoa(*height),
			"footer":     strconv.FormatBool(*footer),
			"trace":      strconv.FormatBool(*trace),
			"logFile":    *logFile,
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

// ParsePage maps a page name or number to a page.
func ParsePage(name string) (event.Page, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "output", "playback", "1":
		return event.PageOutput, nil
	case "input", "recording", "2":
		return event.PageInput, nil
	case "cards", "card", "3":
		return event.PageCards, nil
	}
	return event.PageOutput, fmt.Errorf("unknown page %q (want output, input or cards)", name)
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate ensures required minimum configuration is present.
func Validate(cfg Config) error {
	for _, addr := range strings.Fields(cfg.App.Server) {
		if err := validServerAddress(addr); err != nil {
			return err
		}
	}
	return nil
}

// validServerAddress accepts the native protocol forms: an optional {host}
// prefix followed by a socket path, unix:, tcp:, tcp4: or tcp6: address.
func validServerAddress(addr string) error {
	rest := addr
	if strings.HasPrefix(rest, "{") {
		end := strings.IndexByte(rest, '}')
		if end < 0 {
			return fmt.Errorf("server %q: unterminated host prefix", addr)
		}
		rest = rest[end+1:]
	}
	switch {
	case strings.HasPrefix(rest, "/"):
		return nil
	case strings.HasPrefix(rest, "unix:"), strings.HasPrefix(rest, "tcp:"),
		strings.HasPrefix(rest, "tcp4:"), strings.HasPrefix(rest, "tcp6:"):
		if _, value, _ := strings.Cut(rest, ":"); value != "" {
			return nil
		}
	}
	return fmt.Errorf("server %q: want a socket path or a unix:, tcp:, tcp4: or tcp6: address", addr)
}
