package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/1broseidon/tsumiki/internal/config"
)

var (
	groupTitleStyle = lipgloss.NewStyle().Bold(true).Underline(true).MarginTop(1)
	keyStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
)

var cheatsheetCmd = &cobra.Command{
	Use:   "cheatsheet",
	Short: "Print the configured key binding cheatsheet",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := loadConfig()
		if err != nil {
			return err
		}
		if wantJSON() {
			return writeJSON(cmd.OutOrStdout(), res.Config.Cheatsheet)
		}
		fmt.Fprint(cmd.OutOrStdout(), renderCheatsheet(res.Config.Cheatsheet))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cheatsheetCmd)
}

// renderCheatsheet lays out each group with its keys in one aligned column.
func renderCheatsheet(groups []config.CheatsheetGroup) string {
	var b strings.Builder
	for _, g := range groups {
		width := 0
		for _, e := range g.Entries {
			width = max(width, lipgloss.Width(e.Key))
		}
		b.WriteString(groupTitleStyle.Render(g.Title))
		b.WriteString("\n")
		for _, e := range g.Entries {
			key := keyStyle.Width(width + 2).Render(e.Key)
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, "  ", key, e.Description))
			b.WriteString("\n")
		}
	}
	return b.String()
}
