package cmd

import (
	"fmt"

	"github.com/KaramelBytes/statify-cli/internal/profile"
	"github.com/KaramelBytes/statify-cli/internal/report"
	"github.com/spf13/cobra"
)

var (
	showFormat     string
	showSampleRows int
	showColumn     string
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Render the workspace's current profile after replaying its operations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(showFormat)
		if err != nil {
			return err
		}
		s, err := openSession()
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()

		if cmd.Flags().Changed("column") {
			if showColumn != "" {
				if _, ok := profile.Find(s.state.Columns, showColumn); !ok {
					return fmt.Errorf("column %q: unknown column", showColumn)
				}
			}
			s.ws.Preferences.ActiveColumn = showColumn
			if err := s.ws.Save(); err != nil {
				return err
			}
		}
		if active := s.ws.Preferences.ActiveColumn; active != "" {
			// The active column may have been dropped since it was chosen.
			if c, ok := profile.Find(s.state.Columns, active); ok {
				hist, err := s.eng.Histogram(active)
				if err != nil {
					return err
				}
				if format == "json" {
					out, err := report.JSON(report.ColumnView{ColumnProfile: c, Histogram: hist})
					if err != nil {
						return err
					}
					fmt.Fprintln(w, out)
					return nil
				}
				fmt.Fprint(w, report.Column(c, hist))
				return nil
			}
		}

		out, err := render(s.state, s.eng, s.info, format, showSampleRows)
		if err != nil {
			return err
		}
		if !s.eng.Filter().IsZero() && format != "json" {
			fmt.Fprintf(w, "Filter: %d of %d rows shown in samples\n\n", len(s.eng.Filtered()), s.eng.Dataset().Len())
		}
		fmt.Fprintln(w, out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().StringVar(&showFormat, "format", "", "output format: markdown|json (default from config)")
	showCmd.Flags().IntVar(&showSampleRows, "sample-rows", -1, "number of sample rows to include (default from config, 0 disables)")
	showCmd.Flags().StringVar(&showColumn, "column", "", "focus on one column and remember it (empty value clears)")
}
