package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/statify-cli/internal/loader"
	"github.com/KaramelBytes/statify-cli/internal/utils"
	"github.com/KaramelBytes/statify-cli/internal/workspace"
	"github.com/spf13/cobra"
)

var (
	initRead readFlags
	initDir  string
	initName string
)

var initCmd = &cobra.Command{
	Use:   "init <file>",
	Short: "Initialize a statify workspace for a data file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := initDir
		if dir == "" {
			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("resolve working dir: %w", err)
			}
			dir = wd
		}
		dir, err := filepath.Abs(dir)
		if err != nil {
			return err
		}
		// Refuse to overwrite an existing workspace.
		if _, err := os.Stat(filepath.Join(dir, workspace.FileName)); err == nil {
			return fmt.Errorf("workspace already exists at %s", dir)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("stat workspace: %w", err)
		}

		file, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		if !loader.Supported(file) {
			return fmt.Errorf("%s: %w", args[0], loader.ErrUnsupported)
		}
		// Store the source relative to the workspace when it lives inside it.
		path := file
		if rel, err := filepath.Rel(dir, file); err == nil && !strings.HasPrefix(rel, "..") {
			path = rel
		}
		src, err := initRead.source(path)
		if err != nil {
			return err
		}
		name := initName
		if name == "" {
			base := filepath.Base(file)
			name = strings.TrimSuffix(base, filepath.Ext(base))
		}

		if err := utils.EnsureDir(dir); err != nil {
			return err
		}
		ws := workspace.New(name, src, dir)
		e, err := newEngine()
		if err != nil {
			return err
		}
		// Load once so a bad source fails before anything is written.
		st, _, err := ws.Open(e)
		if err != nil {
			return err
		}
		if err := ws.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Workspace initialized: %s (%s)\n", dir, summaryLine(st))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initRead.bind(initCmd.Flags())
	initCmd.Flags().StringVar(&initDir, "dir", "", "workspace directory (default: working directory)")
	initCmd.Flags().StringVar(&initName, "name", "", "workspace name (default: file base name)")
}
