package main

import (
	"fmt"

	"github.com/aretw0/zonecheck/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check every component",
	Long: `Compiles every component and checks that it is consistent and
deterministic. Unreachable locations are reported as warnings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		stack, _, _, err := newStack(cmd)
		if err != nil {
			return err
		}
		defer stack.Close()

		reports, err := stack.Engine.Validate(cmd.Context())
		if err != nil {
			return err
		}

		p := tui.NewPrinter(cmd.OutOrStdout())
		if err := p.Markdown(tui.ValidationMarkdown(reports)); err != nil {
			return err
		}
		failed := 0
		for _, r := range reports {
			if !r.OK() {
				failed++
			}
		}
		p.Status(failed == 0, fmt.Sprintf("%d of %d components valid", len(reports)-failed, len(reports)))
		if failed > 0 {
			return errViolated
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
