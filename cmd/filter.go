package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/statify-cli/internal/dataset"
	"github.com/spf13/cobra"
)

var (
	filterSearch  string
	filterColumns []string
	filterClear   bool
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Set the workspace display filter used by show, regress and cluster",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		f := s.ws.Preferences.Filter
		if filterClear {
			f = dataset.Filter{}
		}
		if cmd.Flags().Changed("search") {
			f.Search = filterSearch
		}
		for _, kv := range filterColumns {
			col, val, ok := strings.Cut(kv, "=")
			col = strings.TrimSpace(col)
			if !ok || col == "" {
				return fmt.Errorf("invalid --column %q (use column=value)", kv)
			}
			if !s.eng.Dataset().HasColumn(col) {
				return fmt.Errorf("filter column %q: unknown column", col)
			}
			if f.Columns == nil {
				f.Columns = map[string]string{}
			}
			if val == "" {
				delete(f.Columns, col)
				continue
			}
			f.Columns[col] = val
		}
		if len(f.Columns) == 0 {
			f.Columns = nil
		}

		s.ws.Preferences.Filter = f
		s.eng.SetFilter(f)
		if err := s.ws.Save(); err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if f.IsZero() {
			fmt.Fprintf(w, "✓ Filter cleared: %d rows\n", s.eng.Dataset().Len())
			return nil
		}
		fmt.Fprintf(w, "✓ Filter saved: %d of %d rows match\n", len(s.eng.Filtered()), s.eng.Dataset().Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(filterCmd)
	filterCmd.Flags().StringVar(&filterSearch, "search", "", "case-insensitive text matched against every cell")
	filterCmd.Flags().StringArrayVar(&filterColumns, "column", nil, "column=value substring match (repeatable; empty value removes it)")
	filterCmd.Flags().BoolVar(&filterClear, "clear", false, "clear the filter before applying other flags")
}
