// Copyright IBM Corp. 2023, 2026
// SPDX-License-Identifier: MPL-2.0

package actions

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/thanhpk/randstr"
)

///////////////////////////////////
//     GitHub Actions Helpers    //
///////////////////////////////////

// GHA writes workflow commands and environment files when running inside
// GitHub Actions, and degrades to plain output everywhere else
type GHA struct {
	outWriter io.Writer

	isGHA bool

	// Generates heredoc delimiters for multi-line outputs
	delimiter func() string
}

// Annotation is a message shown in the Actions workflow run UI, optionally
// attributed to a location in a file
type Annotation struct {
	// The annotation's content body
	Message string

	// (optional) Custom title
	Title string

	// (optional) Filename, e.g. the .copyear.hcl holding the notice
	File string

	// (optional) Line number, starting at 1
	Line int

	// (optional) Ending line number, starting at 1
	EndLine int
}

// ErrorNotInGHA is the error returned when a function can only
// execute in GitHub Actions, but the current execution
// environment is NOT GitHub Actions
var ErrorNotInGHA = errors.New("Not in GitHub Actions")

// New returns a new GitHub Actions Writer
func New(out io.Writer) *GHA {
	// Default to looking up if we're running in GitHub Actions
	isGHA := os.Getenv("GITHUB_ACTIONS") == "true"
	return &GHA{outWriter: out, isGHA: isGHA, delimiter: randomDelimiter}
}

func randomDelimiter() string {
	return "ghadelimiter_" + randstr.Hex(8)
}

// IsGHA returns true if the program is executing inside of GitHub Actions
func (gha *GHA) IsGHA() bool {
	return gha.isGHA
}

// DisableGHAOutput forcibly disables GitHub Actions-specific output types
func (gha *GHA) DisableGHAOutput() {
	gha.isGHA = false
}

// EnableGHAOutput forcibly enables GitHub Actions-specific output types
func (gha *GHA) EnableGHAOutput() {
	gha.isGHA = true
}

// StartGroup opens a collapsible log group. Outside of GitHub Actions the
// group name is printed in bold instead.
// https://docs.github.com/en/actions/using-workflows/workflow-commands-for-github-actions#grouping-log-lines
func (gha *GHA) StartGroup(name string) {
	if !gha.IsGHA() {
		gha.println(text.Bold.Sprint(name))
		return
	}

	gha.println("::group::" + name)
}

// EndGroup closes the log group opened by StartGroup
func (gha *GHA) EndGroup() {
	if !gha.IsGHA() {
		return
	}

	gha.println("::endgroup::")
}

// SetOutput sets a step output. Values spanning several lines, such as a
// multi-line copyright notice, are written with a heredoc delimiter.
// https://docs.github.com/en/actions/using-workflows/workflow-commands-for-github-actions#setting-an-output-parameter
func (gha *GHA) SetOutput(name, value string) error {
	return gha.appendToFile("GITHUB_OUTPUT", gha.keyValue(name, value))
}

// ExportVariable makes an environment variable available to subsequent steps
// https://docs.github.com/en/actions/using-workflows/workflow-commands-for-github-actions#setting-an-environment-variable
func (gha *GHA) ExportVariable(name, value string) error {
	return gha.appendToFile("GITHUB_ENV", gha.keyValue(name, value))
}

// SetJobSummary appends markdown displayed on the summary page of a workflow run
// https://docs.github.com/en/actions/using-workflows/workflow-commands-for-github-actions#adding-a-job-summary
func (gha *GHA) SetJobSummary(content string) error {
	return gha.appendToFile("GITHUB_STEP_SUMMARY", content)
}

func (gha *GHA) keyValue(name, value string) string {
	if !strings.ContainsAny(value, "\r\n") {
		return fmt.Sprintf("%s=%s", name, value)
	}

	newDelimiter := gha.delimiter
	if newDelimiter == nil {
		newDelimiter = randomDelimiter
	}
	d := newDelimiter()
	return fmt.Sprintf("%s<<%s\n%s\n%s", name, d, value, d)
}

// appendToFile adds content to the environment file named by fileEnvVar.
// A newline will automatically be added to the content string if not present
//
// https://docs.github.com/en/actions/using-workflows/workflow-commands-for-github-actions#environment-files
func (gha *GHA) appendToFile(fileEnvVar string, content string) error {
	path, exists := os.LookupEnv(fileEnvVar)
	if !gha.IsGHA() || !exists {
		return fmt.Errorf("unable to modify GitHub Actions environment file %s: %w", fileEnvVar, ErrorNotInGHA)
	}

	if content == "" {
		return nil
	}

	if !strings.HasSuffix(content, "\n") {
		content = content + "\n"
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteString(content)
	return err
}

// Notice creates a notice annotation
func (gha *GHA) Notice(a Annotation) { gha.newAnnotation("notice", a) }

// Warning creates a warning annotation
func (gha *GHA) Warning(a Annotation) { gha.newAnnotation("warning", a) }

// Error creates an error annotation
func (gha *GHA) Error(a Annotation) { gha.newAnnotation("error", a) }

// newAnnotation prints a workflow command of the given kind ("notice",
// "warning" or "error"). Nothing is printed outside of GitHub Actions.
//
// General format:
// "::error file={name},line={line},endLine={endLine},title={title}::{message}"
func (gha *GHA) newAnnotation(kind string, a Annotation) {
	if !gha.IsGHA() {
		return
	}

	attributes := []string{}
	if a.Title != "" {
		attributes = append(attributes, "title="+escapeProperty(a.Title))
	}
	if a.File != "" {
		attributes = append(attributes, "file="+escapeProperty(a.File))
	}
	if a.Line != 0 {
		attributes = append(attributes, fmt.Sprintf("line=%d", a.Line))
	}
	if a.EndLine != 0 {
		attributes = append(attributes, fmt.Sprintf("endLine=%d", a.EndLine))
	}

	gha.println(fmt.Sprintf("::%s %s::%s", kind, strings.Join(attributes, ","), escapeData(a.Message)))
}

var (
	dataEscaper = strings.NewReplacer(
		"%", "%25",
		"\r", "%0D",
		"\n", "%0A",
	)
	propertyEscaper = strings.NewReplacer(
		"%", "%25",
		"\r", "%0D",
		"\n", "%0A",
		":", "%3A",
		",", "%2C",
	)
)

// escapeData escapes an annotation message. Copyright notices routinely hold
// commas and newlines, which would otherwise end the command early.
func escapeData(s string) string { return dataEscaper.Replace(s) }

// escapeProperty escapes an annotation attribute value
func escapeProperty(s string) string { return propertyEscaper.Replace(s) }

func (gha *GHA) println(i ...interface{}) {
	fmt.Fprintln(gha.outWriter, i...)
}
