package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/spf13/cobra"

	"github.com/dhcgn/exemption-log/filter"
	"github.com/dhcgn/exemption-log/mbox"
	"github.com/dhcgn/exemption-log/stats"
)

// NewExplodeCommand returns the subcommand that splits an mbox archive into
// .eml files.
func NewExplodeCommand() *cobra.Command {
	var (
		outDir        string
		prefix        string
		includeHeader []string
		includeBody   []string
		excludeHeader []string
		excludeBody   []string
	)

	c := &cobra.Command{
		Use:   "explode [mbox file]",
		Short: "Split an mbox archive into numbered .eml files for logging",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.Default()
			x, err := mbox.NewExploder(mbox.Options{
				Path:   args[0],
				OutDir: outDir,
				Prefix: prefix,
				Filter: filter.Options{
					IncludeHeader: includeHeader,
					IncludeBody:   includeBody,
					ExcludeHeader: excludeHeader,
					ExcludeBody:   excludeBody,
				},
			}, logger)
			if err != nil {
				return fmt.Errorf("mbox.NewExploder: %w", err)
			}
			reporter := stats.NewReporter(x, logger)

			sum, err := x.Explode()
			if err != nil {
				return fmt.Errorf("explode %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote %d messages to %s", sum.Written, outDir)
			if sum.Filtered > 0 {
				fmt.Fprintf(out, ", filtered %d", sum.Filtered)
			}
			fmt.Fprintln(out)
			printFilterHits(out, sum.Hits)

			logger.Debug("explode finished", reporter.Summary().LogAttrs()...)
			return nil
		},
	}

	flags := c.Flags()
	flags.StringVarP(&outDir, "out", "o", ".", "Folder the .eml files are written to")
	flags.StringVar(&prefix, "prefix", "", "Prefix for each file name before the message number")
	flags.StringArrayVar(&includeHeader, "include-header", nil, "Regex allow-list applied to message headers (mutually exclusive with exclude flags)")
	flags.StringArrayVar(&includeBody, "include-body", nil, "Regex allow-list applied to message bodies (mutually exclusive with exclude flags)")
	flags.StringArrayVar(&excludeHeader, "exclude-header", nil, "Regex block-list applied to message headers (mutually exclusive with include flags)")
	flags.StringArrayVar(&excludeBody, "exclude-body", nil, "Regex block-list applied to message bodies (mutually exclusive with include flags)")
	return c
}

func printFilterHits(w io.Writer, hits map[string]int) {
	if len(hits) == 0 {
		return
	}

	type pair struct {
		Pattern string
		Count   int
	}
	pairs := make([]pair, 0, len(hits))
	for p, n := range hits {
		pairs = append(pairs, pair{p, n})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Count != pairs[j].Count {
			return pairs[i].Count > pairs[j].Count
		}
		return pairs[i].Pattern < pairs[j].Pattern
	})

	fmt.Fprintln(w, "Filter hits:")
	for _, p := range pairs {
		fmt.Fprintf(w, "  %s: %d\n", p.Pattern, p.Count)
	}
}
