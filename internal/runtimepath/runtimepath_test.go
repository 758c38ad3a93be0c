package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDir_UsesXDGRuntimeDirWhenSet(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if got != td {
		t.Fatalf("Dir() = %q, want %q", got, td)
	}
}

func TestDir_FallbacksWhenXDGRuntimeDirMissing(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "")

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}

	wantRun := fmt.Sprintf("/run/user/%d", os.Getuid())
	wantTmp := fmt.Sprintf("/tmp/tsumiki-runtime-%d", os.Getuid())
	if got != wantRun && got != wantTmp {
		t.Fatalf("Dir() = %q, want %q or %q", got, wantRun, wantTmp)
	}
}

func TestSocketPath(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	socket, err := SocketPath()
	if err != nil {
		t.Fatalf("SocketPath() error: %v", err)
	}
	if !strings.HasSuffix(socket, "/tsumiki.sock") {
		t.Fatalf("SocketPath() = %q, missing suffix", socket)
	}
}

func TestConfigDir(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", td)

	got, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error: %v", err)
	}
	if want := filepath.Join(td, "tsumiki"); got != want {
		t.Fatalf("ConfigDir() = %q, want %q", got, want)
	}
}

func TestDataDirs(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/home/u/.local/share")
	t.Setenv("XDG_DATA_DIRS", "/opt/share: :/usr/share")

	got := DataDirs()
	want := []string{"/home/u/.local/share", "/opt/share", "/usr/share"}
	if len(got) != len(want) {
		t.Fatalf("DataDirs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("DataDirs()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDir_MissingRuntimeDirFallsBackToTmp(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", filepath.Join(t.TempDir(), "gone"))

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if want := fmt.Sprintf("/tmp/tsumiki-runtime-%d", os.Getuid()); got != want {
		t.Fatalf("Dir() = %q, want %q", got, want)
	}
}

func TestDataDirs_DropsRelativeAndDuplicates(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/home/u/.local/share")
	t.Setenv("XDG_DATA_DIRS", "relative/share:/usr/share:/home/u/.local/share:/usr/share")

	got := DataDirs()
	want := []string{"/home/u/.local/share", "/usr/share"}
	if strings.Join(got, ":") != strings.Join(want, ":") {
		t.Fatalf("DataDirs() = %v, want %v", got, want)
	}
}
