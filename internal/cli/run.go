package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/zonecheck"
	"github.com/aretw0/zonecheck/internal/logging"
	"github.com/aretw0/zonecheck/internal/presentation/tui"
	"github.com/aretw0/zonecheck/pkg/domain"
)

// RunOptions configures a batch of queries.
type RunOptions struct {
	// Format is "text" (markdown, styled on a terminal) or "json".
	Format string
	Out    io.Writer
}

// RunQueries answers every query read from r and prints the verdicts. It
// returns how many verdicts were not satisfied.
func RunQueries(ctx context.Context, eng *zonecheck.Engine, r io.Reader, opts RunOptions) (int, error) {
	verdicts, err := eng.CheckAll(ctx, r)
	if err != nil {
		return 0, err
	}

	violated := 0
	for _, v := range verdicts {
		if !v.Satisfied {
			violated++
		}
	}

	switch opts.Format {
	case "json":
		enc := json.NewEncoder(opts.Out)
		enc.SetIndent("", "  ")
		if verdicts == nil {
			verdicts = []*domain.Verdict{}
		}
		return violated, enc.Encode(verdicts)
	case "", "text":
		p := tui.NewPrinter(opts.Out)
		for _, v := range verdicts {
			if err := p.Markdown(tui.VerdictMarkdown(v)); err != nil {
				return violated, err
			}
		}
		p.Status(violated == 0, fmt.Sprintf("%d of %d queries satisfied", len(verdicts)-violated, len(verdicts)))
		return violated, nil
	}
	return violated, fmt.Errorf("unknown format %q", opts.Format)
}

// CreateLogger configures the application logger. Logs go to stderr so
// they never mix with reports or JSON-RPC on stdout.
func CreateLogger(level slog.Level, format string, quiet bool) *slog.Logger {
	if quiet {
		return logging.NewNop()
	}
	if logging.Format(format) == logging.FormatJSON {
		return logging.NewWithWriter(os.Stderr, level, logging.FormatJSON)
	}
	return logging.New(level)
}
