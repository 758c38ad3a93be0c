package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/tsumiki/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the configuration",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load and validate the config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := loadConfig()
		if err != nil {
			return err
		}
		fmt.Println("OK")
		for _, f := range res.Files {
			fmt.Printf("  loaded %s\n", f)
		}
		return nil
	},
}

var configPrintCmd = &cobra.Command{
	Use:   "print",
	Short: "Print the effective config as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := loadConfig()
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(res.Config)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	},
}

var configExplainCmd = &cobra.Command{
	Use:   "explain <yaml.path>",
	Short: "Show an effective value and where it was set",
	Example: `  tsumiki config explain modules.dock.icon_size
  tsumiki config explain modules.workspaces.icon_map.1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := loadConfig()
		if err != nil {
			return err
		}
		value, src, err := config.Explain(res, args[0])
		if err != nil {
			return err
		}
		out, err := yaml.Marshal(value)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "path: %s\n", args[0])
		fmt.Fprintf(os.Stdout, "source: %s\n", formatSource(src))
		fmt.Fprintf(os.Stdout, "value:\n%s", string(out))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configValidateCmd, configPrintCmd, configExplainCmd)
	rootCmd.AddCommand(configCmd)
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceDefault:
		return "default"
	default:
		return string(src.Kind)
	}
}
