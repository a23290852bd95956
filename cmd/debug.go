// Copyright IBM Corp. 2023, 2026
// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/copyear/copyright"
	"github.com/hashicorp/copyear/sourcedate"
	"github.com/hashicorp/go-hclog"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mergestat/timediff"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// debugCmd represents the debug command
var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Prints env-specific debug information about copyear",
	Long: `Prints information to help debug issues, including:
- Copyear Version
- Running configuration
- GitHub Actions detection
- The copyright year a build would use right now, and where it came from
- The layout recognized for each copyright notice line`,
	PreRun: func(cmd *cobra.Command, args []string) {
		// Let's forcibly enable trace-level logging
		cliLogger.SetLevel(hclog.Trace)
	},
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		title := func(t string) {
			escaped := colorize(t, text.FgCyan, text.Bold)
			cmd.Println(escaped)
		}

		//
		// Print version info
		//
		title("Copyear Version:")
		cmd.Printf("%v\n\n", GetVersion())

		//
		// Print info relating to any configuration file found
		//
		title("Copyear Configuration File:")
		path := conf.GetConfigPath()
		cmd.Printf("Configuration file path: %s\n", path)
		if _, err := os.Stat(path); err == nil {
			cmd.Print("✔️ Config file exists\n\n")
		} else {
			cmd.Print("❌ File does not exist\n\n")
		}

		//
		// Print running config
		//
		title("Running Config:")
		cmd.Printf("%v\n", conf.Sprint())

		//
		// Print GitHub Actions/CI Information
		//
		title("GitHub Actions:")
		if gha.IsGHA() {
			cmd.Print("Current execution environment is GitHub Actions\n\n")
		} else {
			cmd.Print("Current execution environment is NOT GitHub Actions\n\n")
		}

		//
		// Print the year a correction would use
		//
		title("Copyright Year:")
		resolver := sourcedate.New(
			sourcedate.WithOverride(conf.Override()),
			sourcedate.WithLogger(cliLogger.Named("sourcedate")),
		)
		res, err := resolver.Resolve()
		printResolution(out, res, err)
		cmd.Println()

		//
		// Print how each notice line is understood
		//
		title("Copyright Notice:")
		value, ok, err := conf.Copyright()
		switch {
		case err != nil:
			cmd.Println(err)
		case !ok:
			cmd.Println("No copyright notice configured")
		default:
			printLayouts(out, value)
		}
	},
}

func init() {
	rootCmd.AddCommand(debugCmd)
}

// printResolution describes where the target year came from
func printResolution(out io.Writer, res sourcedate.Resolution, err error) {
	if err != nil {
		fmt.Fprintf(out, "Unable to resolve year: %v\n", err)
		return
	}

	fmt.Fprintf(out, "Year:\t%d\n", res.Year)
	fmt.Fprintf(out, "Source:\t%s\n", res.Origin)
	if res.Source == sourcedate.SourceOverride {
		fmt.Fprintf(out, "Epoch:\t%s (%v, %s)\n", res.Epoch, res.Time.Format("2006-01-02T15:04:05Z07:00"), timediff.TimeDiff(res.Time))
	}
}

// printLayouts lists every notice line with the layout it was recognized as
func printLayouts(out io.Writer, v copyright.Value) {
	kind := "single string"
	if v.IsSequence() {
		kind = fmt.Sprintf("list of %d lines", v.Len())
	}
	fmt.Fprintf(out, "Stored as a %s\n", kind)

	t := newTableWriter(out)
	t.AppendHeader(table.Row{"#", "Line", "Layout"})
	t.AppendRows(lo.Map(v.Lines(), func(line string, i int) table.Row {
		return table.Row{i + 1, line, copyright.Match(line).String()}
	}))
	t.Render()
}
