// Copyright IBM Corp. 2023, 2026
// SPDX-License-Identifier: MPL-2.0

package sourcedate

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

// EnvVar is the environment variable used by reproducible builds to pin the
// build timestamp.
// See https://reproducible-builds.org/docs/source-date-epoch/
const EnvVar = "SOURCE_DATE_EPOCH"

// ErrInvalidEpoch is returned when an override timestamp is present but is
// not a non-negative, base-10 number of seconds since the Unix epoch
var ErrInvalidEpoch = errors.New("invalid source date epoch")

// Clock reports the current wall-clock time
type Clock interface {
	Now() time.Time
}

// SystemClock is a Clock backed by time.Now()
type SystemClock struct{}

// Now returns the current local time
func (SystemClock) Now() time.Time { return time.Now() }

// OriginOverride is the origin reported for overrides that were not given a
// more specific name with Override.As
const OriginOverride = "override"

// OriginClock is the origin reported when the system clock was used
const OriginClock = "system clock"

// Override returns an override timestamp, the name of where it was found, and
// whether one was supplied at all
type Override func() (epoch string, origin string, ok bool)

// As returns an Override that reports origin instead of o's own origin
func (o Override) As(origin string) Override {
	return func() (string, string, bool) {
		if o == nil {
			return "", origin, false
		}
		v, _, ok := o()
		return v, origin, ok
	}
}

// EnvOverride looks up SOURCE_DATE_EPOCH in the process environment
func EnvOverride() Override {
	return func() (string, string, bool) {
		v, ok := os.LookupEnv(EnvVar)
		return v, EnvVar, ok
	}
}

// StaticOverride always returns v. An empty v behaves like an absent override.
func StaticOverride(v string) Override {
	return func() (string, string, bool) {
		return v, OriginOverride, v != ""
	}
}

// FirstOverride returns the first override that is present and non-empty,
// along with its origin
func FirstOverride(overrides ...Override) Override {
	return func() (string, string, bool) {
		for _, o := range overrides {
			if o == nil {
				continue
			}
			if v, origin, ok := o(); ok && v != "" {
				return v, origin, true
			}
		}
		return "", "", false
	}
}

// Source identifies the kind of input a resolved year came from
type Source int

const (
	SourceClock Source = iota
	SourceOverride
)

func (s Source) String() string {
	switch s {
	case SourceOverride:
		return OriginOverride
	default:
		return OriginClock
	}
}

// Resolution is the outcome of resolving the target year
type Resolution struct {
	Time   time.Time
	Year   int
	Source Source

	// Where the year came from, e.g. SOURCE_DATE_EPOCH, a config key or
	// "system clock"
	Origin string

	// Raw override value, empty when the clock was used
	Epoch string
}

// ParseEpoch parses a SOURCE_DATE_EPOCH value into a UTC time
func ParseEpoch(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: value is empty", ErrInvalidEpoch)
	}

	secs, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %s", ErrInvalidEpoch, s, err)
	}
	if secs < 0 {
		return time.Time{}, fmt.Errorf("%w %q: must not be negative", ErrInvalidEpoch, s)
	}

	return time.Unix(secs, 0).UTC(), nil
}

// Resolver determines the year that copyright notices should end with
type Resolver struct {
	Clock    Clock
	Override Override
	Logger   hclog.Logger
}

// Option configures a Resolver
type Option func(*Resolver)

// WithClock replaces the wall clock used when no override is present
func WithClock(c Clock) Option {
	return func(r *Resolver) { r.Clock = c }
}

// WithOverride replaces the source of the override timestamp
func WithOverride(o Override) Option {
	return func(r *Resolver) { r.Override = o }
}

// WithLogger sets the logger used to report which source won
func WithLogger(l hclog.Logger) Option {
	return func(r *Resolver) { r.Logger = l }
}

// New returns a Resolver that reads SOURCE_DATE_EPOCH from the environment and
// falls back to the system clock
func New(opts ...Option) *Resolver {
	r := &Resolver{
		Clock:    SystemClock{},
		Override: EnvOverride(),
		Logger:   hclog.L().Named("sourcedate"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the target time and year. A present, non-empty override
// always wins over the clock; a malformed override is returned as an error
// rather than silently falling back.
func (r *Resolver) Resolve() (Resolution, error) {
	logger := r.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	if r.Override != nil {
		if v, origin, ok := r.Override(); ok && v != "" {
			if origin == "" {
				origin = OriginOverride
			}
			t, err := ParseEpoch(v)
			if err != nil {
				return Resolution{}, fmt.Errorf("%s: %w", origin, err)
			}
			logger.Debug("resolved year from override", "origin", origin, "epoch", v, "year", t.Year())
			return Resolution{Time: t, Year: t.Year(), Source: SourceOverride, Origin: origin, Epoch: v}, nil
		}
	}

	clock := r.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	now := clock.Now().Local()
	logger.Debug("resolved year from system clock", "year", now.Year())
	return Resolution{Time: now, Year: now.Year(), Source: SourceClock, Origin: OriginClock}, nil
}

// Year returns just the resolved year
func (r *Resolver) Year() (int, error) {
	res, err := r.Resolve()
	if err != nil {
		return 0, err
	}
	return res.Year, nil
}
