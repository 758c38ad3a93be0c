package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/1broseidon/tsumiki/internal/config"
	"github.com/1broseidon/tsumiki/internal/ipc"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

var (
	globalOpts struct {
		verbose    bool
		jsonOut    bool
		configPath string
		socketPath string
	}
	logLevel = new(slog.LevelVar)
	logger   *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tsumiki",
	Short: "Dock, taskbar and workspace switcher core for Linux desktops",
	Long: `tsumiki watches the windows and workspaces of the running X11 session
(or Hyprland on Wayland) and maintains the dock, taskbar and workspace
switcher models of a desktop shell.

Run 'tsumiki daemon' to start the service; the other commands query and
control a running daemon over its unix socket.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&globalOpts.jsonOut, "json", false,
		"Print machine-readable JSON")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/tsumiki/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.socketPath, "socket", "",
		"Path to the daemon socket (default: $XDG_RUNTIME_DIR/tsumiki/tsumiki.sock)")
}

// setupLogger installs the default logger on stderr: text for terminals,
// JSON otherwise.
func setupLogger() {
	logLevel.Set(slog.LevelInfo)
	if globalOpts.verbose {
		logLevel.Set(slog.LevelDebug)
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	var handler slog.Handler
	if term.IsTerminal(int(os.Stderr.Fd())) {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// loadConfig loads --config or the default config file.
func loadConfig() (*config.LoadResult, error) {
	if globalOpts.configPath != "" {
		return config.LoadFromPath(globalOpts.configPath)
	}
	return config.LoadWithSources()
}

func newClient() *ipc.Client {
	if globalOpts.socketPath != "" {
		return ipc.NewClientWithSocket(globalOpts.socketPath)
	}
	return ipc.NewClient()
}

// wantJSON reports whether output should be JSON: when asked for, or when
// stdout is not a terminal.
func wantJSON() bool {
	return globalOpts.jsonOut || !term.IsTerminal(int(os.Stdout.Fd()))
}
