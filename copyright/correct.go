// Copyright IBM Corp. 2023, 2026
// SPDX-License-Identifier: MPL-2.0

package copyright

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/samber/lo"
)

// Store is the configuration slot that owns a project's copyright notice
type Store interface {
	// Copyright returns the stored notice and whether one is set at all
	Copyright() (Value, bool, error)

	// SetCopyright replaces the stored notice
	SetCopyright(Value) error
}

// YearResolver produces the year that notices should end with
type YearResolver interface {
	Year() (int, error)
}

// CorrectYear runs a single correction pass over the notice held by store.
// The resolver is consulted exactly once and its year is applied to every
// line. A store without a notice is left alone and the resolver is not
// called. On error the store is not modified.
func CorrectYear(store Store, resolver YearResolver) error {
	logger := hclog.L().Named("copyright")

	value, ok, err := store.Copyright()
	if err != nil {
		return fmt.Errorf("unable to read copyright: %w", err)
	}
	if !ok {
		logger.Debug("no copyright configured, nothing to correct")
		return nil
	}

	year, err := resolver.Year()
	if err != nil {
		return fmt.Errorf("unable to determine copyright year: %w", err)
	}

	corrected := Correct(value, year)
	modified := lo.Filter(Diff(value, corrected), func(c Change, _ int) bool {
		return c.Modified()
	})
	logger.Debug("corrected copyright year", "year", year, "lines", value.Len(), "modified", len(modified))

	if err := store.SetCopyright(corrected); err != nil {
		return fmt.Errorf("unable to store corrected copyright: %w", err)
	}
	return nil
}
