package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/zonecheck/internal/cli"
	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query [QUERY...]",
	Short: "Answer queries",
	Long: `Answers each query given as an argument, or each line of a query file.

  zonecheck query 'refinement: Administration <= (Spec \\ Researcher) \\ Machine'
  zonecheck query -f university.q --format json

Exits with status 1 when a query is not satisfied.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		format, _ := cmd.Flags().GetString("format")

		var src io.Reader
		switch {
		case file == "-":
			src = cmd.InOrStdin()
		case file != "":
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()
			src = f
		case len(args) > 0:
			src = strings.NewReader(strings.Join(args, "\n"))
		default:
			return fmt.Errorf("no queries given; pass them as arguments or with --file")
		}

		stack, cfg, _, err := newStack(cmd)
		if err != nil {
			return err
		}
		defer stack.Close()

		ctx := cmd.Context()
		if cfg.Checks.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.Checks.Timeout)
			defer cancel()
		}

		violated, err := cli.RunQueries(ctx, stack.Engine, src, cli.RunOptions{Format: format, Out: cmd.OutOrStdout()})
		if err != nil {
			return err
		}
		if violated > 0 {
			return errViolated
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringP("file", "f", "", "Query file, one query per line (- for stdin)")
	queryCmd.Flags().String("format", "text", "Output format: text or json")
}
