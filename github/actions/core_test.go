// Copyright IBM Corp. 2023, 2026
// SPDX-License-Identifier: MPL-2.0

package actions

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// This test feels tautological, but it guards from regressions around checks
// for environment variables to determine if running in GitHub Actions or not
func Test_New(t *testing.T) {
	tests := []struct {
		name          string
		env           map[string]string
		expectedIsGHA bool
	}{
		{
			name:          "Detect if running in a GitHub Actions environment",
			env:           map[string]string{"GITHUB_ACTIONS": "true"},
			expectedIsGHA: true,
		},
		{
			name:          "Detect if NOT running in a GitHub Actions environment",
			env:           map[string]string{"GITHUB_ACTIONS": "false"},
			expectedIsGHA: false,
		},
		{
			name:          "Detect if NOT running in a GitHub Actions environment due to an empty GITHUB_ACTIONS env var",
			env:           map[string]string{"GITHUB_ACTIONS": ""},
			expectedIsGHA: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			var b bytes.Buffer
			gha := New(&b)
			assert.Equal(t, tt.expectedIsGHA, gha.IsGHA())
		})
	}
}

func Test_EnableDisable(t *testing.T) {
	var b bytes.Buffer
	gha := &GHA{outWriter: &b}

	gha.EnableGHAOutput()
	assert.True(t, gha.IsGHA())

	gha.DisableGHAOutput()
	assert.False(t, gha.IsGHA())
}

func Test_Groups(t *testing.T) {
	// Let's take colorized output out of the picture
	text.DisableColors()

	tests := []struct {
		name           string
		isGHA          bool
		expectedOutput string
	}{
		{
			name:           "Workflow commands are printed in GitHub Actions",
			isGHA:          true,
			expectedOutput: "::group::Copyright\n::endgroup::\n",
		},
		{
			name:           "Only the group name is printed elsewhere",
			isGHA:          false,
			expectedOutput: "Copyright\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b bytes.Buffer
			gha := &GHA{outWriter: &b, isGHA: tt.isGHA}
			gha.StartGroup("Copyright")
			gha.EndGroup()
			assert.Equal(t, tt.expectedOutput, b.String())
		})
	}
}

// envFile points fileEnvVar at a fresh temporary file and returns a reader
// for its contents
func envFile(t *testing.T, fileEnvVar string) func() string {
	path := filepath.Join(t.TempDir(), "envfile")
	t.Setenv(fileEnvVar, path)

	return func() string {
		b, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			return ""
		}
		require.Nil(t, err, "If this broke, the test is wrong, not the function under test")
		return string(b)
	}
}

func Test_appendToFile(t *testing.T) {
	tests := []struct {
		name           string
		isGHA          bool
		input          string
		expectedOutput string
		expectedError  error
	}{
		{
			name:           "Empty input doesn't write anything",
			isGHA:          true,
			input:          "",
			expectedOutput: "",
		},
		{
			name:           "Newline gets added to input",
			isGHA:          true,
			input:          "key=value",
			expectedOutput: "key=value\n",
		},
		{
			name:           "Already present newline gets left alone",
			isGHA:          true,
			input:          "key=value\n",
			expectedOutput: "key=value\n",
		},
		{
			name:           "Function does nothing if not in GitHub Actions",
			isGHA:          false,
			input:          "key=value\n",
			expectedOutput: "",
			expectedError:  ErrorNotInGHA,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b bytes.Buffer
			gha := &GHA{outWriter: &b, isGHA: tt.isGHA}

			read := envFile(t, "TEST_APPEND_FILE")
			err := gha.appendToFile("TEST_APPEND_FILE", tt.input)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.Nil(t, err)
			}
			assert.Equal(t, tt.expectedOutput, read())
		})
	}
}

func Test_appendToFileMissingEnv(t *testing.T) {
	var b bytes.Buffer
	gha := &GHA{outWriter: &b, isGHA: true}

	err := gha.appendToFile("TEST_APPEND_FILE_THAT_IS_NEVER_SET", "key=value")
	assert.ErrorIs(t, err, ErrorNotInGHA)
}

func Test_SetOutput(t *testing.T) {
	tests := []struct {
		name           string
		inputName      string
		inputValue     string
		expectedOutput string
	}{
		{
			name:           "Single line value is written as key=value",
			inputName:      "copyright",
			inputValue:     "2006-2010, Alice",
			expectedOutput: "copyright=2006-2010, Alice\n",
		},
		{
			name:           "Multi-line value uses a heredoc delimiter",
			inputName:      "copyright",
			inputValue:     "2010\n2006-2010, Alice",
			expectedOutput: "copyright<<EOF_TEST\n2010\n2006-2010, Alice\nEOF_TEST\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b bytes.Buffer
			gha := &GHA{
				outWriter: &b,
				isGHA:     true,
				delimiter: func() string { return "EOF_TEST" },
			}

			read := envFile(t, "GITHUB_OUTPUT")
			err := gha.SetOutput(tt.inputName, tt.inputValue)
			assert.Nil(t, err)
			assert.Equal(t, tt.expectedOutput, read())
		})
	}
}

func Test_randomDelimiter(t *testing.T) {
	a, b := randomDelimiter(), randomDelimiter()
	assert.Regexp(t, `^ghadelimiter_[0-9a-f]+$`, a)
	assert.NotEqual(t, a, b, "Delimiters must not repeat")
}

func Test_ExportVariable(t *testing.T) {
	var b bytes.Buffer
	gha := &GHA{outWriter: &b, isGHA: true}

	read := envFile(t, "GITHUB_ENV")
	err := gha.ExportVariable("COPYEAR_YEAR", "2010")
	assert.Nil(t, err)
	assert.Equal(t, "COPYEAR_YEAR=2010\n", read())
}

func Test_SetJobSummary(t *testing.T) {
	var b bytes.Buffer
	gha := &GHA{outWriter: &b, isGHA: true}

	read := envFile(t, "GITHUB_STEP_SUMMARY")
	err := gha.SetJobSummary("# Copyright\nThis is `markdown`!")
	assert.Nil(t, err)
	assert.Equal(t, "# Copyright\nThis is `markdown`!\n", read())
}

func Test_newAnnotation(t *testing.T) {
	tests := []struct {
		name           string
		annotationType string
		isGHA          bool
		input          Annotation
		expectedOutput string
	}{
		{
			name:           "Empty annotation works properly",
			annotationType: "error",
			isGHA:          true,
			input:          Annotation{},
			expectedOutput: "::error ::\n",
		},
		{
			name:           "Single annotation attribute prints without join separator",
			annotationType: "warning",
			isGHA:          true,
			input: Annotation{
				Title:   "Stale copyright",
				Message: "Lorem ipsum dolar sit",
			},
			expectedOutput: "::warning title=Stale copyright::Lorem ipsum dolar sit\n",
		},
		{
			name:           "Fully filled Annotation prints properly",
			annotationType: "notice",
			isGHA:          true,
			input: Annotation{
				Title:   "Stale copyright",
				File:    ".copyear.hcl",
				Message: "Expected 2010",
				Line:    3,
				EndLine: 5,
			},
			expectedOutput: "::notice title=Stale copyright,file=.copyear.hcl,line=3,endLine=5::Expected 2010\n",
		},
		{
			name:           "Commas and colons in attributes are escaped",
			annotationType: "warning",
			isGHA:          true,
			input: Annotation{
				Title:   "2006-2009, Alice: stale",
				Message: "ok",
			},
			expectedOutput: "::warning title=2006-2009%2C Alice%3A stale::ok\n",
		},
		{
			name:           "Newlines and percent signs in messages are escaped",
			annotationType: "error",
			isGHA:          true,
			input: Annotation{
				Message: "2010\n2006-2010, Alice 100%",
			},
			expectedOutput: "::error ::2010%0A2006-2010, Alice 100%25\n",
		},
		{
			name:           "Nothing gets printed if we aren't in GitHub Actions",
			annotationType: "notice",
			isGHA:          false,
			input:          Annotation{Message: "hidden"},
			expectedOutput: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b bytes.Buffer
			gha := &GHA{outWriter: &b, isGHA: tt.isGHA}
			gha.newAnnotation(tt.annotationType, tt.input)
			assert.Equal(t, tt.expectedOutput, b.String())
		})
	}
}

// Test_newAnnotation covers most test cases - this is here primarily to
// ensure that the annotation type is passed properly to newAnnotation()
func Test_AnnotationKinds(t *testing.T) {
	var b bytes.Buffer
	gha := &GHA{outWriter: &b, isGHA: true}

	gha.Notice(Annotation{Message: "n"})
	gha.Warning(Annotation{Message: "w"})
	gha.Error(Annotation{Message: "e"})

	assert.Equal(t, "::notice ::n\n::warning ::w\n::error ::e\n", b.String())
}
