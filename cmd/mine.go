package cmd

import (
	"fmt"

	"github.com/KaramelBytes/statify-cli/internal/engine"
	"github.com/KaramelBytes/statify-cli/internal/report"
	"github.com/spf13/cobra"
)

var (
	regFormat     string
	clusterK      int
	clusterIter   int
	clusterFormat string
)

var regressCmd = &cobra.Command{
	Use:   "regress <x> <y>",
	Short: "Fit y = slope*x + intercept over the filtered rows",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(regFormat)
		if err != nil {
			return err
		}
		s, err := openSession()
		if err != nil {
			return err
		}
		res, err := s.eng.FitRegression(args[0], args[1])
		if err != nil {
			return err
		}
		if format == "json" {
			out, err := report.JSON(res)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), report.Regression(res))
		return nil
	},
}

var clusterCmd = &cobra.Command{
	Use:   "cluster <dim> <dim> [dim...]",
	Short: "Run k-means over two or more numeric columns of the filtered rows",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(clusterFormat)
		if err != nil {
			return err
		}
		c, err := config()
		if err != nil {
			return err
		}
		k := clusterK
		if k <= 0 {
			k = c.DefaultK
		}
		s, err := openSession(engine.WithMaxIterations(clusterIter))
		if err != nil {
			return err
		}
		res, err := s.eng.RunClustering(args, k)
		if err != nil {
			return err
		}
		if format == "json" {
			out, err := report.JSON(res)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), report.Clusters(res))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(regressCmd)
	rootCmd.AddCommand(clusterCmd)
	regressCmd.Flags().StringVar(&regFormat, "format", "", "output format: markdown|json (default from config)")
	clusterCmd.Flags().IntVarP(&clusterK, "clusters", "k", 0, "number of clusters (default from config default_k)")
	clusterCmd.Flags().IntVar(&clusterIter, "max-iter", 0, "iteration cap (default from config kmeans_max_iterations)")
	clusterCmd.Flags().StringVar(&clusterFormat, "format", "", "output format: markdown|json (default from config)")
}
