// Copyright IBM Corp. 2023, 2026
// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/copyear/config"
	"github.com/hashicorp/copyear/copyright"
	"github.com/hashicorp/copyear/github/actions"
	"github.com/hashicorp/copyear/sourcedate"
	"github.com/hashicorp/go-hclog"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{}

func (fixedClock) Now() time.Time { return time.Date(2009, time.June, 15, 12, 0, 0, 0, time.UTC) }

func testResolver(epoch string) *sourcedate.Resolver {
	return sourcedate.New(
		sourcedate.WithClock(fixedClock{}),
		sourcedate.WithOverride(sourcedate.StaticOverride(epoch).As(sourcedate.EnvVar)),
		sourcedate.WithLogger(hclog.NewNullLogger()),
	)
}

func testConfig(t *testing.T, raw interface{}) *config.Config {
	c := config.MustNew()
	if raw != nil {
		err := c.LoadConfMap(map[string]interface{}{"copyright": raw})
		require.Nil(t, err, "If this broke, the test is wrong, not the function under test")
	}
	return c
}

func Test_copyrightFromFlags(t *testing.T) {
	assert.True(t, copyright.Single("2009 Alice").Equal(copyrightFromFlags([]string{"2009 Alice"})))
	assert.True(t, copyright.Sequence("2006", "2009 Alice").Equal(copyrightFromFlags([]string{"2006", "2009 Alice"})))
}

func Test_runCorrection(t *testing.T) {
	tests := []struct {
		description       string
		raw               interface{}
		epoch             string
		expectedConfigure bool
		expectedChanged   bool
		expectedAfter     interface{}
		expectedSource    sourcedate.Source
	}{
		{
			description:       "Single line follows the override",
			raw:               "2006-2009, Alice",
			epoch:             "1293839999",
			expectedConfigure: true,
			expectedChanged:   true,
			expectedAfter:     "2006-2010, Alice",
			expectedSource:    sourcedate.SourceOverride,
		},
		{
			description:       "List follows the override",
			raw:               []string{"2006", "2006-2009, Alice", "2010-2013, Bob"},
			epoch:             "1293839999",
			expectedConfigure: true,
			expectedChanged:   true,
			expectedAfter:     []string{"2010", "2006-2010, Alice", "2010-2010, Bob"},
			expectedSource:    sourcedate.SourceOverride,
		},
		{
			description:       "Clock year matching the notice changes nothing",
			raw:               "2006-2009 Alice",
			epoch:             "",
			expectedConfigure: true,
			expectedChanged:   false,
			expectedAfter:     "2006-2009 Alice",
			expectedSource:    sourcedate.SourceClock,
		},
		{
			description:       "No notice configured",
			raw:               nil,
			epoch:             "1293839999",
			expectedConfigure: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			c := testConfig(t, tt.raw)

			result, err := runCorrection(c, testResolver(tt.epoch))
			assert.Nil(t, err)
			assert.Equal(t, tt.expectedConfigure, result.Configured)
			if !tt.expectedConfigure {
				return
			}

			assert.Equal(t, tt.expectedChanged, result.Changed())
			assert.Equal(t, tt.expectedAfter, result.After.Raw())
			assert.Equal(t, tt.expectedSource, result.Resolution.Source)

			// The corrected notice is written back to the config
			stored, _, err := c.Copyright()
			assert.Nil(t, err)
			assert.Equal(t, tt.expectedAfter, stored.Raw())
		})
	}
}

func Test_runCorrectionMalformedEpoch(t *testing.T) {
	c := testConfig(t, "2006-2009, Alice")

	_, err := runCorrection(c, testResolver("last tuesday"))
	assert.ErrorIs(t, err, sourcedate.ErrInvalidEpoch)

	stored, _, err := c.Copyright()
	assert.Nil(t, err)
	assert.Equal(t, "2006-2009, Alice", stored.Raw(), "A failed pass must not touch the config")
}

func Test_printCorrection(t *testing.T) {
	text.DisableColors()

	c := testConfig(t, []string{"2006-2009, Alice", "All rights reserved"})
	result, err := runCorrection(c, testResolver("1293839999"))
	require.Nil(t, err)

	var b bytes.Buffer
	printCorrection(&b, result)
	out := b.String()

	assert.Contains(t, out, "Using copyright year 2010 from SOURCE_DATE_EPOCH")
	assert.Contains(t, out, "range, author")
	assert.Contains(t, out, "unrecognized")
	assert.Contains(t, out, "Corrected copyright notice:\n2006-2010, Alice\nAll rights reserved\n")
}

func Test_printCorrectionUpToDate(t *testing.T) {
	text.DisableColors()

	c := testConfig(t, "2010 Alice")
	result, err := runCorrection(c, testResolver("1293839999"))
	require.Nil(t, err)

	var b bytes.Buffer
	printCorrection(&b, result)
	assert.Contains(t, b.String(), "Copyright notice is up to date!\n2010 Alice\n")
}

func Test_correctionSummary(t *testing.T) {
	c := testConfig(t, "2009, Alice")
	result, err := runCorrection(c, testResolver("1293839999"))
	require.Nil(t, err)

	summary := correctionSummary(result)
	assert.Contains(t, summary, "### Copyright year 2010 (SOURCE_DATE_EPOCH)")
	assert.Contains(t, summary, "| # | Layout | Before | After |")
	assert.Contains(t, summary, "| 1 | year, author | 2009, Alice | 2010, Alice |")
}

func Test_publishCorrection(t *testing.T) {
	dir := t.TempDir()
	outputPath := filepath.Join(dir, "output")
	envPath := filepath.Join(dir, "env")
	summaryPath := filepath.Join(dir, "summary")
	t.Setenv("GITHUB_OUTPUT", outputPath)
	t.Setenv("GITHUB_ENV", envPath)
	t.Setenv("GITHUB_STEP_SUMMARY", summaryPath)

	c := testConfig(t, "2006-2009 Alice")
	result, err := runCorrection(c, testResolver("1293839999"))
	require.Nil(t, err)

	var b bytes.Buffer
	g := actions.New(&b)
	g.EnableGHAOutput()
	publishCorrection(g, hclog.NewNullLogger(), result)

	output, err := os.ReadFile(outputPath)
	assert.Nil(t, err)
	assert.Equal(t, "copyright=2006-2010 Alice\n", string(output))

	env, err := os.ReadFile(envPath)
	assert.Nil(t, err)
	assert.Equal(t, "COPYEAR_YEAR=2010\n", string(env))

	summary, err := os.ReadFile(summaryPath)
	assert.Nil(t, err)
	assert.Contains(t, string(summary), "2006-2010 Alice")
}

func Test_runCorrectionCreditsConfigOverride(t *testing.T) {
	t.Setenv(sourcedate.EnvVar, "1199145600")

	c := testConfig(t, "2006-2009, Alice")
	err := c.LoadConfMap(map[string]interface{}{"build.source_date_epoch": "1293839999"})
	require.Nil(t, err)

	resolver := sourcedate.New(
		sourcedate.WithClock(fixedClock{}),
		sourcedate.WithOverride(c.Override()),
		sourcedate.WithLogger(hclog.NewNullLogger()),
	)
	result, err := runCorrection(c, resolver)
	require.Nil(t, err)

	var b bytes.Buffer
	printCorrection(&b, result)
	assert.Contains(t, b.String(), "Using copyright year 2010 from build.source_date_epoch")
	assert.Contains(t, correctionSummary(result), "### Copyright year 2010 (build.source_date_epoch)")
}
