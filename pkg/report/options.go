package report

import (
	"time"

	"github.com/matzehuels/heritage/pkg/family"
)

// Option configures report generation.
type Option func(*config)

type config struct {
	now    func() time.Time
	title  string
	spouse *family.Member
}

func newConfig(opts []Option) config {
	c := config{now: time.Now, title: "Family Tree Report"}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithClock sets the time source for the generation timestamp.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}

// WithTitle overrides the report title.
func WithTitle(s string) Option { return func(c *config) { c.title = s } }

// WithSpouse supplies the resolved spouse record for a member profile. It
// takes precedence over the spouse name stored on the member.
func WithSpouse(m *family.Member) Option { return func(c *config) { c.spouse = m } }
