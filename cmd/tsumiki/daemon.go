package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/1broseidon/tsumiki/internal/config"
	"github.com/1broseidon/tsumiki/internal/daemon"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Start the tsumiki daemon (foreground)",
	Long: `Start the window observer, the dock, taskbar and workspace models, the
IPC server and (on X11) the global hotkeys.

SIGHUP reloads the configuration; SIGINT and SIGTERM stop the daemon.`,
	Args: cobra.NoArgs,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(daemonCmd)
}

func runDaemon(cmd *cobra.Command, args []string) error {
	res, err := loadConfig()
	if err != nil {
		return err
	}
	configPath := globalOpts.configPath
	if configPath == "" {
		if configPath, err = config.DefaultConfigPath(); err != nil {
			return err
		}
	}
	opts := daemon.Options{
		ConfigPath: configPath,
		SocketPath: globalOpts.socketPath,
		Logger:     logger,
	}
	// --verbose wins over log_level.
	if !globalOpts.verbose {
		opts.LogLevel = logLevel
	}
	d, err := daemon.New(res.Config, opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				logger.Info("received SIGHUP, reloading config")
				if err := d.Reload(); err != nil {
					logger.Error("config reload failed", "error", err)
				}
			}
		}
	}()

	return d.Run(ctx)
}
