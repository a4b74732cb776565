// Package file loads the optional TOML settings file and watches it for
// edits.
package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/atomicstack/tui-mixer/internal/theme"
)

// File mirrors the settings file. Pointer fields distinguish "unset" from a
// zero value.
type File struct {
	VolumeStep       *int                      `toml:"volume_step"`
	MaxVolumePercent *int                      `toml:"max_volume_percent"`
	Meters           *bool                     `toml:"meters"`
	Page             string                    `toml:"page"`
	Styles           map[string]theme.Override `toml:"styles"`
}

// ErrUnknownKey is wrapped when the file carries keys this program does not
// read.
var ErrUnknownKey = errors.New("unknown config key")

// DefaultPath returns $XDG_CONFIG_HOME/tui-mixer/config.toml, falling back to
// ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath(env map[string]string) string {
	if dir := env["XDG_CONFIG_HOME"]; dir != "" {
		return filepath.Join(dir, "tui-mixer", "config.toml")
	}
	home := env["HOME"]
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	if home == "" {
		return ""
	}
	return filepath.Join(home, ".config", "tui-mixer", "config.toml")
}

// Load decodes path. A missing file yields an empty File and os.ErrNotExist.
func Load(path string) (File, error) {
	var f File
	if path == "" {
		return f, os.ErrNotExist
	}
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return File{}, err
		}
		return File{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return File{}, fmt.Errorf("%s: %w: %s", path, ErrUnknownKey, strings.Join(keys, ", "))
	}
	if f.VolumeStep != nil && *f.VolumeStep <= 0 {
		return File{}, fmt.Errorf("%s: volume_step must be > 0 (got %d)", path, *f.VolumeStep)
	}
	if f.MaxVolumePercent != nil && *f.MaxVolumePercent < 100 {
		return File{}, fmt.Errorf("%s: max_volume_percent must be >= 100 (got %d)", path, *f.MaxVolumePercent)
	}
	return f, nil
}

// Theme applies the [styles] table to base.
func (f File) Theme(base *theme.Styles) (*theme.Styles, error) {
	if len(f.Styles) == 0 {
		return base, nil
	}
	return theme.WithOverrides(base, f.Styles)
}
