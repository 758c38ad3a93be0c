package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/1broseidon/tsumiki/internal/ipc"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := newClient().GetStatus()
		if err != nil {
			return err
		}
		if wantJSON() {
			return writeJSON(os.Stdout, status)
		}
		fmt.Print(formatStatus(status, time.Now()))
		return nil
	},
}

var windowsCmd = &cobra.Command{
	Use:   "windows",
	Short: "List managed windows",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		windows, err := newClient().ListWindows()
		if err != nil {
			return err
		}
		if wantJSON() {
			return writeJSON(os.Stdout, windows)
		}
		fmt.Println(windowsTable(windows))
		return nil
	},
}

var workspacesCmd = &cobra.Command{
	Use:   "workspaces",
	Short: "List workspaces",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := newClient().ListWorkspaces()
		if err != nil {
			return err
		}
		if wantJSON() {
			return writeJSON(os.Stdout, list)
		}
		fmt.Println(workspacesTable(list))
		return nil
	},
}

var activateCmd = &cobra.Command{
	Use:   "activate",
	Short: "Focus a window or switch workspace",
}

var activateWindowCmd = &cobra.Command{
	Use:   "window <id>",
	Short: "Focus a window by id (decimal or 0x hex)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 0, 64)
		if err != nil {
			return fmt.Errorf("invalid window id %q: %w", args[0], err)
		}
		return newClient().ActivateWindow(id)
	},
}

var activateWorkspaceCmd = &cobra.Command{
	Use:   "workspace <n>",
	Short: "Switch to workspace n (1-based)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid workspace %q: %w", args[0], err)
		}
		return newClient().ActivateWorkspace(n)
	},
}

var dockCmd = &cobra.Command{
	Use:   "dock",
	Short: "Show the dock's running groups and pinned apps",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := newClient().ListDock()
		if err != nil {
			return err
		}
		if wantJSON() {
			return writeJSON(os.Stdout, data)
		}
		fmt.Println(dockTable(data.Items))
		if !data.Revealed {
			fmt.Println(dimStyle.Render("(dock hidden)"))
		}
		return nil
	},
}

var dockActivateCmd = &cobra.Command{
	Use:   "activate <key>",
	Short: "Activate a dock group, cycling through its windows",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return newClient().ActivateGroup(args[0])
	},
}

var dockMenuCmd = &cobra.Command{
	Use:   "menu <key>",
	Short: "Show a dock group's menu, or run an entry with --select",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		if cmd.Flags().Changed("select") {
			index, _ := cmd.Flags().GetInt("select")
			return client.SelectMenu(args[0], index)
		}
		items, err := client.DockMenu(args[0])
		if err != nil {
			return err
		}
		if wantJSON() {
			return writeJSON(os.Stdout, items)
		}
		fmt.Println(menuTable(items))
		return nil
	},
}

var dockCloseCmd = &cobra.Command{
	Use:   "close <key>",
	Short: "Close every window of a dock group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := newClient().CloseGroup(args[0])
		if err != nil {
			return err
		}
		if wantJSON() {
			return writeJSON(os.Stdout, ipc.CloseGroupData{Closed: n})
		}
		fmt.Printf("closed %s\n", humanize.Comma(int64(n)))
		return nil
	},
}

var dockLaunchCmd = &cobra.Command{
	Use:   "launch <app-id>",
	Short: "Start a new instance of an installed application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return newClient().Launch(args[0])
	},
}

var pinCmd = &cobra.Command{
	Use:   "pin <app-id>",
	Short: "Pin an application to the dock",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		if err := client.Pin(args[0]); err != nil {
			return err
		}
		if cmd.Flags().Changed("at") {
			at, _ := cmd.Flags().GetInt("at")
			return client.MovePinned(args[0], at)
		}
		return nil
	},
}

var unpinCmd = &cobra.Command{
	Use:   "unpin <app-id>",
	Short: "Remove an application from the dock",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return newClient().Unpin(args[0])
	},
}

var pinnedCmd = &cobra.Command{
	Use:   "pinned",
	Short: "List pinned applications",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		apps, err := newClient().ListPinned()
		if err != nil {
			return err
		}
		if wantJSON() {
			return writeJSON(os.Stdout, apps)
		}
		fmt.Println(pinnedTable(apps))
		return nil
	},
}

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Ask the daemon to reload its config",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return newClient().Reload()
	},
}

func init() {
	activateCmd.AddCommand(activateWindowCmd, activateWorkspaceCmd)
	dockMenuCmd.Flags().Int("select", 0, "run the menu entry at this index")
	pinCmd.Flags().Int("at", 0, "position in the pinned order (0 is first)")
	dockCmd.AddCommand(dockActivateCmd, dockMenuCmd, dockCloseCmd, dockLaunchCmd)
	rootCmd.AddCommand(statusCmd, windowsCmd, workspacesCmd, activateCmd,
		dockCmd, pinCmd, unpinCmd, pinnedCmd, reloadCmd)
}

func formatStatus(s *ipc.StatusData, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "backend:    %s\n", s.Backend)
	fmt.Fprintf(&b, "state:      %s\n", s.State)
	fmt.Fprintf(&b, "windows:    %d\n", s.WindowCount)
	fmt.Fprintf(&b, "workspaces: %d\n", s.WorkspaceCount)
	fmt.Fprintf(&b, "pinned:     %d\n", s.PinnedCount)
	started := now.Add(-time.Duration(s.UptimeSeconds) * time.Second)
	fmt.Fprintf(&b, "started:    %s\n", humanize.RelTime(started, now, "ago", "from now"))
	return b.String()
}

func windowsTable(windows []ipc.WindowInfo) string {
	rows := make([][]string, 0, len(windows))
	active := make(map[int]bool)
	for i, w := range windows {
		ws := ""
		if w.Workspace > 0 {
			ws = strconv.Itoa(w.Workspace)
		}
		rows = append(rows, []string{fmt.Sprintf("0x%x", w.ID), w.AppID, ws, yesNo(w.Urgent), w.Title})
		active[i] = w.Active
	}
	return renderTable([]string{"ID", "APP", "WS", "URGENT", "TITLE"}, rows, active)
}

func workspacesTable(list []ipc.WorkspaceInfo) string {
	rows := make([][]string, 0, len(list))
	active := make(map[int]bool)
	for i, ws := range list {
		rows = append(rows, []string{strconv.Itoa(ws.ID), ws.Name, ws.Label, yesNo(ws.Occupied)})
		active[i] = ws.Active
	}
	return renderTable([]string{"ID", "NAME", "LABEL", "OCCUPIED"}, rows, active)
}

func dockTable(items []ipc.DockItem) string {
	rows := make([][]string, 0, len(items))
	active := make(map[int]bool)
	for i, it := range items {
		rows = append(rows, []string{it.Key, humanize.Comma(int64(it.Count)), yesNo(it.Pinned), it.Tooltip})
		active[i] = it.Active
	}
	return renderTable([]string{"KEY", "WINDOWS", "PINNED", "TOOLTIP"}, rows, active)
}

func pinnedTable(apps []ipc.PinnedApp) string {
	rows := make([][]string, 0, len(apps))
	for _, a := range apps {
		name := a.Name
		if !a.Installed {
			name = "(not installed)"
		}
		rows = append(rows, []string{a.AppID, name, yesNo(a.Running)})
	}
	return renderTable([]string{"APP", "NAME", "RUNNING"}, rows, nil)
}

func menuTable(items []ipc.MenuEntry) string {
	rows := make([][]string, 0, len(items))
	for i, it := range items {
		id := ""
		if it.WindowID != 0 {
			id = fmt.Sprintf("0x%x", it.WindowID)
		}
		rows = append(rows, []string{strconv.Itoa(i), it.Kind, id, it.Label})
	}
	return renderTable([]string{"#", "KIND", "WINDOW", "LABEL"}, rows, nil)
}
