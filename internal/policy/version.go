package policy

import (
	"fmt"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/dshills/grantcritic/internal/schema"
)

// Version is the semantic version of the built-in policy tables.
const Version = "1.3.0"

// DefaultMaxAge is how long policy tables are trusted before callers should
// warn that NIH guidance may have changed.
const DefaultMaxAge = 180 * 24 * time.Hour

var lastUpdated = time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

// CheckVersion reports an error when the policy version does not satisfy
// constraint (e.g. ">= 1.0.0, < 2.0.0"). An empty constraint always passes.
func (p *Policy) CheckVersion(constraint string) error {
	if constraint == "" {
		return nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("invalid policy constraint %q: %w", constraint, err)
	}
	v, err := semver.NewVersion(p.Version)
	if err != nil {
		return fmt.Errorf("invalid policy version %q: %w", p.Version, err)
	}
	if !c.Check(v) {
		return fmt.Errorf("policy version %s does not satisfy %q", v, constraint)
	}
	return nil
}

// CheckStaleness compares the policy's last-updated date against now. It is a
// pure function of its inputs; a non-positive maxAge uses DefaultMaxAge.
func (p *Policy) CheckStaleness(now time.Time, maxAge time.Duration) schema.Staleness {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	age := now.Sub(p.LastUpdated)
	if age < 0 {
		age = 0
	}
	s := schema.Staleness{
		LastUpdated: p.LastUpdated.Format("2006-01-02"),
		AgeDays:     int(age / (24 * time.Hour)),
		Stale:       age > maxAge,
	}
	if s.Stale {
		s.Message = fmt.Sprintf("policy tables were last updated %s (%d days ago); verify caps and minimums against the current NIH SBIR/STTR omnibus before submitting",
			s.LastUpdated, s.AgeDays)
	}
	return s
}
