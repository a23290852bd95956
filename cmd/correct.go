// Copyright IBM Corp. 2023, 2026
// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/hashicorp/copyear/copyright"
	"github.com/hashicorp/copyear/github/actions"
	"github.com/hashicorp/copyear/sourcedate"
	"github.com/hashicorp/go-hclog"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// Flag variables
var (
	plan          bool
	quiet         bool
	copyrightFlag []string
)

// correctCmd represents the correct command
var correctCmd = &cobra.Command{
	Use:   "correct",
	Short: "Rewrites the trailing year of the copyright notice to the build year",
	Long: `Rewrites the trailing year of the configured copyright notice to the build year.

The notice is read from the "copyright" entry of the config file (a string, or
a list of strings) or from one or more --copyright flags. Each line is matched
against the supported layouts:
- 2006-2009, Alice
- 2006-2009 Alice
- 2006-2009
- 2009, Alice
- 2009 Alice
- 2009
and only its final year is replaced. Lines in any other layout are printed
unchanged.

The corrected notice is printed to stdout. In GitHub Actions it is also exposed
as the "copyright" step output, and the year as the COPYEAR_YEAR variable.`,
	GroupID: "common", // Let's put this command in the common section of the help
	// Errors are reported once by cobra; the usage text would only bury them
	SilenceUsage: true,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Map command flags to config keys
		mapping := map[string]string{
			`source-date-epoch`: `build.source_date_epoch`,
		}

		// update the running config with any command-line flags
		clobberWithDefaults := false
		err := conf.LoadCommandFlags(cmd.Flags(), mapping, clobberWithDefaults)
		if err != nil {
			return err
		}

		// --copyright replaces the configured notice wholesale
		if cmd.Flags().Changed("copyright") {
			return conf.SetCopyright(copyrightFromFlags(copyrightFlag))
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver := sourcedate.New(
			sourcedate.WithOverride(conf.Override()),
			sourcedate.WithLogger(cliLogger.Named("sourcedate")),
		)

		result, err := runCorrection(conf, resolver)
		if err != nil {
			return err
		}

		if !result.Configured {
			cliLogger.Warn("No copyright notice found in the config or via the --copyright flag")
			return nil
		}

		if quiet {
			cmd.Println(result.After.String())
		} else {
			gha.StartGroup("Copyright year correction:")
			printCorrection(cmd.OutOrStdout(), result)
			gha.EndGroup()
		}

		if gha.IsGHA() {
			publishCorrection(gha, cliLogger, result)
		}

		if plan && result.Changed() {
			return fmt.Errorf("copyright notice does not end in %d: expected %q", result.Resolution.Year, result.After.String())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(correctCmd)

	// These flags are only locally relevant
	correctCmd.Flags().BoolVar(&plan, "plan", false, "Performs a dry-run and gives a non-zero return if the copyright year is stale")
	correctCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only print the corrected notice")
	correctCmd.Flags().StringArrayVarP(&copyrightFlag, "copyright", "c", nil, "Copyright notice line; repeat the flag for a multi-line notice")

	// These flags will get mapped to keys in the the global Config
	correctCmd.Flags().String("source-date-epoch", "", "Build timestamp in seconds since the Unix epoch (default $SOURCE_DATE_EPOCH)")
}

// copyrightFromFlags turns repeated --copyright flags into a notice: a single
// flag is a single string, several form a sequence
func copyrightFromFlags(lines []string) copyright.Value {
	if len(lines) == 1 {
		return copyright.Single(lines[0])
	}
	return copyright.Sequence(lines...)
}

// correction is the outcome of one correction pass
type correction struct {
	Configured bool
	Before     copyright.Value
	After      copyright.Value
	Resolution sourcedate.Resolution
}

// Changed reports whether the pass rewrote any line
func (c correction) Changed() bool {
	return copyright.Changed(c.Before, c.After)
}

// recordingResolver remembers the resolution used by a correction pass so that
// it can be reported afterwards
type recordingResolver struct {
	resolver   *sourcedate.Resolver
	resolution sourcedate.Resolution
}

func (r *recordingResolver) Year() (int, error) {
	res, err := r.resolver.Resolve()
	if err != nil {
		return 0, err
	}
	r.resolution = res
	return res.Year, nil
}

// runCorrection runs a single correction pass against store and reports the
// notice before and after
func runCorrection(store copyright.Store, resolver *sourcedate.Resolver) (correction, error) {
	before, ok, err := store.Copyright()
	if err != nil {
		return correction{}, err
	}
	if !ok {
		return correction{}, nil
	}

	rr := &recordingResolver{resolver: resolver}
	if err := copyright.CorrectYear(store, rr); err != nil {
		return correction{}, err
	}

	after, _, err := store.Copyright()
	if err != nil {
		return correction{}, err
	}

	return correction{
		Configured: true,
		Before:     before,
		After:      after,
		Resolution: rr.resolution,
	}, nil
}

func changeRows(c correction) []table.Row {
	return lo.Map(copyright.Diff(c.Before, c.After), func(ch copyright.Change, _ int) table.Row {
		return table.Row{ch.Index + 1, ch.Shape.String(), ch.Before, ch.After}
	})
}

// printCorrection renders a human readable report of a correction pass
func printCorrection(out io.Writer, c correction) {
	fmt.Fprintf(out, "Using copyright year %d from %s\n\n", c.Resolution.Year, c.Resolution.Origin)

	t := newTableWriter(out)
	t.AppendHeader(table.Row{"#", "Layout", "Before", "After"})
	t.AppendRows(changeRows(c))
	t.Render()

	fmt.Fprintln(out)
	if !c.Changed() {
		fmt.Fprintln(out, colorize("Copyright notice is up to date!", text.FgGreen))
	} else {
		fmt.Fprintln(out, colorize("Corrected copyright notice:", text.Bold))
	}
	fmt.Fprintln(out, c.After.String())
}

// correctionSummary renders a markdown summary for the workflow run page
func correctionSummary(c correction) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Layout", "Before", "After"})
	t.AppendRows(changeRows(c))

	return fmt.Sprintf("### Copyright year %d (%s)\n\n%s\n", c.Resolution.Year, c.Resolution.Origin, t.RenderMarkdown())
}

// publishCorrection exposes the corrected notice to later workflow steps.
// Failures are logged rather than fatal since the build itself can go on.
func publishCorrection(gha *actions.GHA, logger hclog.Logger, c correction) {
	if err := gha.SetOutput("copyright", c.After.String()); err != nil {
		logger.Warn("Unable to set copyright step output", "error", err)
	}
	if err := gha.ExportVariable("COPYEAR_YEAR", strconv.Itoa(c.Resolution.Year)); err != nil {
		logger.Warn("Unable to export COPYEAR_YEAR", "error", err)
	}
	if err := gha.SetJobSummary(correctionSummary(c)); err != nil {
		logger.Warn("Unable to write job summary", "error", err)
	}
}
