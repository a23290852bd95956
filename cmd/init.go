// Copyright IBM Corp. 2023, 2026
// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/template"

	"github.com/AlecAivazis/survey/v2"
	"github.com/hashicorp/copyear/config"
	"github.com/hashicorp/copyear/copyright"
	"github.com/hashicorp/copyear/sourcedate"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	force     bool
	initLines []string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generates a .copyear.hcl config for a new project",
	Long: `Generates a .copyear.hcl config for a new project with helpful comments.

When no --copyright flag is given, a notice of the form "YEAR, AUTHOR" is
suggested using the current build year. Prompts are made for any unknown
values. If you are running this command in CI, please use the --copyright,
--project-name and --author flags, as prompts are disabled when no TTY is
present.`,
	GroupID: "common", // Let's put this command in the common section of the help
	PreRun: func(cmd *cobra.Command, args []string) {
		// Validate we aren't going to write over an existing config
		_, err := os.Stat(".copyear.hcl")
		if !errors.Is(err, os.ErrNotExist) && !force {
			checkErr(fmt.Errorf(".copyear.hcl config already exists. If you wish to override it, use the `--force` flag"))
		}

		// Input Validation
		for _, line := range initLines {
			checkErr(validateCopyrightLine(line))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		// We create a new config object here to ensure any existing
		// .copyear.hcl does not influence the new configuration file
		newConfig, err := config.New()
		checkErr(err)

		// Map command flags to config keys
		mapping := map[string]string{
			`project-name`: `project.name`,
			`author`:       `project.author`,
		}

		// update the running config with any command-line flags
		clobberWithDefaults := false
		err = newConfig.LoadCommandFlags(cmd.Flags(), mapping, clobberWithDefaults)
		checkErr(err)

		if len(initLines) > 0 {
			err = newConfig.SetCopyright(copyrightFromFlags(initLines))
			checkErr(err)
		} else {
			year, err := sourcedate.New(sourcedate.WithLogger(cliLogger.Named("sourcedate"))).Year()
			checkErr(err)
			err = newConfig.SetCopyright(copyright.Single(suggestCopyright(year, newConfig.Project.Author)))
			checkErr(err)
		}

		// Let's prompt the user to validate the current values
		if cmd.OutOrStdout() == os.Stdout && isatty.IsTerminal(os.Stdout.Fd()) {
			err = promptForConfigValues(newConfig)
			checkErr(err)
		} else {
			cmd.Println("No TTY detected: if running in CI, use `--copyright`, `--project-name` and `--author` flags to set values as needed")
		}

		// Render it out!
		f, err := os.Create(".copyear.hcl")
		checkErr(err)
		defer f.Close()

		err = configToHCL(newConfig, f)
		checkErr(err)

		successText := text.Color(text.FgGreen).Sprintf("✔️ A config has been successfully generated at: ./%s", f.Name())
		cmd.Println(successText)
		cmd.Println("Please commit this file to your repo")
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing .copyear.hcl file, if one exists")
	initCmd.Flags().StringArrayVarP(&initLines, "copyright", "c", nil, "Copyright notice line; repeat the flag for a multi-line notice")

	// These flags will get mapped to keys in the the global Config
	initCmd.Flags().String("project-name", "", "Name of the documentation project")
	initCmd.Flags().String("author", "", "Author or copyright holder named in the notice")
}

// suggestCopyright returns a starting notice for a project that has none
func suggestCopyright(year int, author string) string {
	if author == "" {
		return strconv.Itoa(year)
	}
	return fmt.Sprintf("%d, %s", year, author)
}

// validateCopyrightLine rejects lines whose year could never be corrected
func validateCopyrightLine(line string) error {
	if copyright.Match(line) == copyright.ShapeUnrecognized {
		return fmt.Errorf("copyright line %q has no recognizable year; expected e.g. \"2006-2009, Alice\" or \"2009\"", line)
	}
	return nil
}

// hclConfig is the view of a Config rendered into .copyear.hcl
type hclConfig struct {
	SchemaVersion int
	Name          string
	Author        string
	Lines         []string
	Sequence      bool
}

// configToHCL takes in a Config object and writes an example HCL configuration
// with helpful comments. Any io.Writer interface is accepted, be it stdout or a
// file writer.
func configToHCL(c *config.Config, wr io.Writer) error {
	value, ok, err := c.Copyright()
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("no copyright notice to render")
	}

	view := hclConfig{
		SchemaVersion: c.SchemaVersion,
		Name:          c.Project.Name,
		Author:        c.Project.Author,
		Lines:         value.Lines(),
		Sequence:      value.IsSequence(),
	}

	funcs := template.FuncMap{"quote": strconv.Quote}
	tmpl, err := template.New(".copyear.hcl").Funcs(funcs).Parse(`schema_version = {{.SchemaVersion}}

# The trailing year of each line is rewritten to the build year. Supported
# layouts: "2006-2009, Alice", "2006-2009 Alice", "2006-2009", "2009, Alice",
# "2009 Alice" and "2009". Use a list for a multi-line notice.
{{- if .Sequence}}
copyright = [
{{- range $i, $l := .Lines}}{{if $i}},{{end}}
  {{quote $l}}
{{- end}}
]
{{- else}}
copyright = {{quote (index .Lines 0)}}
{{- end}}

project {
  name   = {{quote .Name}}
  author = {{quote .Author}}
}

# (OPTIONAL) Pin the build timestamp instead of reading SOURCE_DATE_EPOCH
# build {
#   source_date_epoch = "1293839999"
# }
`)
	if err != nil {
		return err
	}

	return tmpl.Execute(wr, view)
}

// promptForConfigValues takes in a pointer to a Config object and prompts the
// user to confirm the project name, author and copyright notice, which then
// get written back to the config object.
func promptForConfigValues(c *config.Config) error {
	current, _, err := c.Copyright()
	if err != nil {
		return err
	}

	prompts := []*survey.Question{
		{
			Name: "Name",
			Prompt: &survey.Input{
				Message: "Project name:",
				Default: c.Project.Name,
			},
		},
		{
			Name: "Author",
			Prompt: &survey.Input{
				Message: "Author:",
				Default: c.Project.Author,
			},
		},
		{
			Name: "Copyright",
			Prompt: &survey.Multiline{
				Message: "Copyright notice (one line per entry):",
				Default: current.String(),
				Help:    `Each line must start with a year or a year range, e.g. "2006-2009, Alice"`,
			},
			Validate: func(val interface{}) error {
				for _, line := range splitNotice(val.(string)) {
					if err := validateCopyrightLine(line); err != nil {
						return err
					}
				}
				return nil
			},
		},
	}

	answers := struct {
		Name      string `survey:"Name"`
		Author    string `survey:"Author"`
		Copyright string `survey:"Copyright"`
	}{}

	// prompt the user
	err = survey.Ask(prompts, &answers)
	if err != nil {
		return err
	}

	err = c.LoadConfMap(map[string]interface{}{
		"project.name":   answers.Name,
		"project.author": answers.Author,
	})
	if err != nil {
		return err
	}

	lines := splitNotice(answers.Copyright)
	if len(lines) == 0 {
		return nil
	}
	return c.SetCopyright(copyrightFromFlags(lines))
}

// splitNotice splits multi-line prompt input into non-empty notice lines
func splitNotice(s string) []string {
	var lines []string
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
