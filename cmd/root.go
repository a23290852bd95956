// Copyright IBM Corp. 2023, 2026
// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"os"

	"github.com/hashicorp/copyear/config"
	"github.com/hashicorp/copyear/github/actions"
	"github.com/hashicorp/go-hclog"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	// Relative path to the copyear HCL config, defaults to .copyear.hcl
	cfgPath string

	// This is the global configuration struct you should use to reference anything
	// from the .copyear.hcl conf
	conf = config.MustNew()

	// This is a global instance of the GitHub Actions core helper library
	gha = actions.New(rootCmd.OutOrStdout())

	// Named subsystem logger for copyear commands
	cliLogger hclog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "copyear",
	Short: "Keeps documentation copyright years in step with reproducible builds",
	Long: `Copyear rewrites the trailing year of a documentation project's copyright
notice so that it matches the build timestamp.

When SOURCE_DATE_EPOCH is set (or --source-date-epoch is passed), the year of
that timestamp in UTC is used. Otherwise the local year of the system clock is
used. Only the final year of each notice line changes; start years, authors and
separators are left exactly as written.`,
	Version: GetVersion(),
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := execute(rootCmd, gha); err != nil {
		os.Exit(1)
	}
}

// execute runs cmd and publishes any error it returns as a GitHub error
// annotation (if in GHA)
func execute(cmd *cobra.Command, g *actions.GHA) error {
	err := cmd.Execute()
	if err != nil {
		g.Error(actions.Annotation{Message: err.Error()})
	}
	return err
}

// checkErr is cobra.CheckErr for code paths that cannot return an error to
// Execute, such as initializers. The error is published as a GitHub error
// annotation (if in GHA) before exiting.
func checkErr(err error) {
	if err == nil {
		return
	}
	gha.Error(actions.Annotation{Message: err.Error()})
	cobra.CheckErr(err)
}

func init() {
	cobra.OnInitialize(initConfig)
	cobra.OnInitialize(initLogger)
	cobra.OnInitialize(initColors)

	// Let's group together the most commonly used commands in the help section
	rootCmd.AddGroup(&cobra.Group{
		ID:    "common",
		Title: "Common Commands:",
	})

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", ".copyear.hcl", "config file")

	// Let's make sure Cobra doesn't default to stderr
	rootCmd.SetOut(os.Stdout)
}

func initConfig() {
	explicit := rootCmd.PersistentFlags().Changed("config")
	checkErr(loadConfig(conf, cfgPath, explicit))
}

// loadConfig loads the HCL config at path into c. Projects that pass everything
// as flags don't need one, so a missing file is only an error when the path
// was given explicitly with --config.
func loadConfig(c *config.Config, path string, explicit bool) error {
	err := c.LoadConfigFile(path)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		return nil
	}
	return err
}

func initLogger() {
	// Valid levels list: https://pkg.go.dev/github.com/hashicorp/go-hclog#Level
	logLevel := hclog.DefaultLevel

	// If we're running in GitHub Actions and runner debugging is enabled, let's
	// default to debug logging just to be extra friendly
	if os.Getenv("RUNNER_DEBUG") == "1" {
		logLevel = hclog.Debug
	}

	// If the `COPYEAR_LOG_LEVEL` environment variable is explicitly set, let's
	// attempt to coerce the result into a proper level. If no matching level can
	// be found, hclog.LevelFromString() defaults to the "NoLevel" (a good thing)
	levelEnv, levelSet := os.LookupEnv("COPYEAR_LOG_LEVEL")
	if levelSet {
		logLevel = hclog.LevelFromString(levelEnv)
	}

	// Library packages log through the default logger, so keep it in step
	hclog.Default().SetLevel(logLevel)

	cliLogger = hclog.New(&hclog.LoggerOptions{
		Name:   "cli",
		Level:  logLevel,
		Color:  hclog.AutoColor,
		Output: os.Stderr,
	})
}

func initColors() {
	// Piped output (e.g. `copyear correct -q > notice.txt`) must stay free of
	// escape sequences
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		text.DisableColors()
	}
}
