package cmd

import (
	"fmt"

	"github.com/KaramelBytes/statify-cli/internal/workspace"
	"github.com/spf13/cobra"
)

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Revert the last recorded operation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		op, ok := s.ws.Undo()
		if !ok {
			fmt.Fprintln(w, "Nothing to undo")
			return nil
		}
		// Replay the shortened log before saving it.
		e, err := newEngine()
		if err != nil {
			return err
		}
		st, _, err := s.ws.Open(e)
		if err != nil {
			return err
		}
		if err := s.ws.Save(); err != nil {
			return err
		}
		fmt.Fprintf(w, "✓ Undid %s: %s\n", op.Operation, summaryLine(st))
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded operations in the order they are replayed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolveWorkspaceDir()
		if err != nil {
			return err
		}
		ws, err := workspace.Load(dir)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Workspace %s (source: %s)\n", ws.Name, ws.Source.Path)
		if len(ws.Operations) == 0 {
			fmt.Fprintln(w, "(no operations)")
			return nil
		}
		for i, op := range ws.Operations {
			fmt.Fprintf(w, "%d. %s  [%s]\n", i+1, op.Operation, op.AppliedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(undoCmd)
	rootCmd.AddCommand(historyCmd)
}
