// Package apps indexes installed applications from XDG desktop entries so
// the dock can name, decorate and launch apps by identifier.
package apps

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/rkoesters/xdg/desktop"
)

// Entry is one application desktop entry.
type Entry struct {
	ID             string // desktop file id without the .desktop suffix
	Name           string
	Exec           string
	Icon           string
	StartupWMClass string
	Terminal       bool
	NoDisplay      bool
	Path           string
}

// DisplayName returns Name, or the id when the entry has no name.
func (e Entry) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.ID
}

// Executable returns the base name of the program Exec runs.
func (e Entry) Executable() string {
	argv, err := e.Command()
	if err != nil || len(argv) == 0 {
		return ""
	}
	return filepath.Base(argv[0])
}

// Command returns Exec split into argv with field codes removed.
func (e Entry) Command() ([]string, error) {
	if strings.TrimSpace(e.Exec) == "" {
		return nil, fmt.Errorf("desktop entry %q has no Exec", e.ID)
	}
	argv, err := splitCommand(e.Exec)
	if err != nil {
		return nil, fmt.Errorf("desktop entry %q: %w", e.ID, err)
	}

	out := argv[:0]
	for _, arg := range argv {
		if arg = expandFieldCodes(arg); arg != "" {
			out = append(out, arg)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("desktop entry %q has an empty command", e.ID)
	}
	return out, nil
}

// Launch starts the application without waiting for it.
func (e Entry) Launch() error {
	argv, err := e.Command()
	if err != nil {
		return err
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch %q: %w", e.ID, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// expandFieldCodes drops %f %F %u %U %i %c %k style codes and unescapes %%.
func expandFieldCodes(arg string) string {
	var b strings.Builder
	for i := 0; i < len(arg); i++ {
		if arg[i] != '%' || i+1 >= len(arg) {
			b.WriteByte(arg[i])
			continue
		}
		i++
		if arg[i] == '%' {
			b.WriteByte('%')
		}
	}
	return b.String()
}

// ParseEntry reads a desktop entry. ok is false for entries that are not
// launchable applications.
func ParseEntry(id string, r io.Reader) (entry Entry, ok bool, err error) {
	de, err := desktop.New(r)
	if err != nil {
		return Entry{}, false, err
	}

	entry = Entry{
		ID:             id,
		Name:           de.Name,
		Exec:           de.Exec,
		Icon:           de.Icon,
		StartupWMClass: de.StartupWMClass,
		Terminal:       de.Terminal,
		NoDisplay:      de.NoDisplay,
	}
	if de.Type != desktop.Application || de.Hidden || entry.Exec == "" {
		return entry, false, nil
	}
	return entry, true, nil
}

func parseFile(id, path string) (Entry, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return Entry{}, false, err
	}
	defer f.Close()

	entry, ok, err := ParseEntry(id, f)
	if err != nil {
		return Entry{}, false, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	entry.Path = path
	return entry, ok, nil
}

// splitCommand splits an Exec value into arguments honoring quotes and
// backslash escapes. Shell operators are not allowed in Exec.
func splitCommand(s string) ([]string, error) {
	parser := shellwords.NewParser()
	argv, err := parser.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("invalid Exec %q: %w", s, err)
	}
	if parser.Position >= 0 {
		return nil, fmt.Errorf("invalid Exec %q: unexpected shell operator at %d", s, parser.Position)
	}
	return argv, nil
}
