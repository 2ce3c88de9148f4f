package cmd

import (
	"fmt"

	"github.com/KaramelBytes/statify-cli/internal/engine"
	"github.com/KaramelBytes/statify-cli/internal/mutate"
	"github.com/spf13/cobra"
)

var imputeCmd = &cobra.Command{
	Use:   "impute <column> <mean|median|mode|zero>",
	Short: "Fill missing values of a column and record the operation",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := mutate.ParseStrategy(args[1])
		if err != nil {
			return err
		}
		return runMutation(cmd, engine.Operation{Kind: engine.OpImpute, Column: args[0], Strategy: s})
	},
}

var transformCmd = &cobra.Command{
	Use:   "transform <column> <log|normalize|standardize>",
	Short: "Rescale a numeric column and record the operation",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		k, err := mutate.ParseTransform(args[1])
		if err != nil {
			return err
		}
		return runMutation(cmd, engine.Operation{Kind: engine.OpTransform, Column: args[0], Transform: k})
	},
}

var dropCmd = &cobra.Command{
	Use:   "drop <column>",
	Short: "Remove a column and record the operation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMutation(cmd, engine.Operation{Kind: engine.OpDrop, Column: args[0]})
	},
}

func runMutation(cmd *cobra.Command, op engine.Operation) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	changed, err := s.apply(op)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if !changed {
		fmt.Fprintf(w, "⚠ Warning: %s changed nothing; not recorded\n", op)
		return nil
	}
	fmt.Fprintf(w, "✓ Applied %s: %s\n", op, summaryLine(s.state))
	return nil
}

func init() {
	rootCmd.AddCommand(imputeCmd)
	rootCmd.AddCommand(transformCmd)
	rootCmd.AddCommand(dropCmd)
}
