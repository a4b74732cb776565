package file

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/atomicstack/tui-mixer/internal/logging"
	"github.com/atomicstack/tui-mixer/internal/theme"
	"github.com/charmbracelet/lipgloss"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadReadsSettingsAndStyles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `
volume_step = 2
max_volume_percent = 120
meters = false
page = "input"

[styles.muted]
fg = "160"
bold = true
`)
	f, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if f.VolumeStep == nil || *f.VolumeStep != 2 {
		t.Fatalf("unexpected volume step %v", f.VolumeStep)
	}
	if f.MaxVolumePercent == nil || *f.MaxVolumePercent != 120 {
		t.Fatalf("unexpected max volume %v", f.MaxVolumePercent)
	}
	if f.Meters == nil || *f.Meters {
		t.Fatalf("expected meters disabled")
	}
	if f.Page != "input" {
		t.Fatalf("unexpected page %q", f.Page)
	}
	styles, err := f.Theme(theme.Default())
	if err != nil {
		t.Fatalf("theme: %v", err)
	}
	if got := styles.Muted.GetForeground(); got != lipgloss.Color("160") {
		t.Fatalf("unexpected muted colour %v", got)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist, got %v", err)
	}

	cases := []struct {
		name string
		body string
		is   error
	}{
		{"unknown key", "colour = 3\n", ErrUnknownKey},
		{"bad step", "volume_step = 0\n", nil},
		{"bad max", "max_volume_percent = 50\n", nil},
		{"syntax", "volume_step = \n", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name+".toml")
			writeFile(t, path, tc.body)
			_, err := Load(path)
			if err == nil {
				t.Fatalf("expected error")
			}
			if tc.is != nil && !errors.Is(err, tc.is) {
				t.Fatalf("expected %v, got %v", tc.is, err)
			}
		})
	}
}

func TestThemeRejectsUnknownStyle(t *testing.T) {
	f := File{Styles: map[string]theme.Override{"nope": {Foreground: "1"}}}
	if _, err := f.Theme(theme.Default()); !errors.Is(err, theme.ErrUnknownStyle) {
		t.Fatalf("expected ErrUnknownStyle, got %v", err)
	}
}

func TestDefaultPath(t *testing.T) {
	if got := DefaultPath(map[string]string{"XDG_CONFIG_HOME": "/xdg"}); got != "/xdg/tui-mixer/config.toml" {
		t.Fatalf("unexpected xdg path %q", got)
	}
	if got := DefaultPath(map[string]string{"HOME": "/home/me"}); got != "/home/me/.config/tui-mixer/config.toml" {
		t.Fatalf("unexpected home path %q", got)
	}
}

func TestWatchReloadsOnWrite(t *testing.T) {
	logging.Configure(filepath.Join(t.TempDir(), "tui-mixer.log"))
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "volume_step = 1\n")

	type result struct {
		f   File
		err error
	}
	got := make(chan result, 4)
	w, err := Watch(path, func(f File, err error) { got <- result{f, err} })
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer w.Close()

	writeFile(t, path, "volume_step = 7\n")
	select {
	case r := <-got:
		if r.err != nil {
			t.Fatalf("reload error: %v", r.err)
		}
		if r.f.VolumeStep == nil || *r.f.VolumeStep != 7 {
			t.Fatalf("unexpected reload %v", r.f.VolumeStep)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("no reload after write")
	}
}
