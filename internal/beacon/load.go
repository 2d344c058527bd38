package beacon

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dshills/repere/internal/anchor"
)

// Load parses and validates a definition file read from r.
func Load(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading beacon definitions: %w", err)
	}
	return parse("<reader>", data)
}

// LoadFile parses and validates the definition file at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading beacon definitions %s: %w", path, err)
	}
	return parse(path, data)
}

func parse(source string, data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, &ParseError{
			Path:    source,
			Message: err.Error(),
			Err:     err,
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks identifiers, selectors, patterns and enumerated values.
func (c *Config) Validate() error {
	var problems []string
	addf := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	checkTrigger := func(where string, t *Trigger) {
		if t == nil {
			return
		}
		if t.Anchor != "" && !anchor.Point(t.Anchor).Valid() {
			addf("%s: unknown anchor %q", where, t.Anchor)
		}
		if t.Strategy != "" && !anchor.Strategy(t.Strategy).Valid() {
			addf("%s: unknown strategy %q", where, t.Strategy)
		}
		if t.DelayMS != nil && *t.DelayMS < 0 {
			addf("%s: negative delay %d", where, *t.DelayMS)
		}
	}
	checkPopover := func(where string, p *Popover) {
		if p != nil && p.Anchor != "" && !anchor.Point(p.Anchor).Valid() {
			addf("%s: unknown popover anchor %q", where, p.Anchor)
		}
	}

	checkTrigger("trigger", c.Trigger)
	checkPopover("popover", c.Popover)

	pages := make(map[string]bool)
	for i, p := range c.Pages {
		where := fmt.Sprintf("pages[%d]", i)
		switch {
		case p.ID == "":
			addf("%s: missing id", where)
		case pages[p.ID]:
			addf("%s: duplicate page id %q", where, p.ID)
		default:
			pages[p.ID] = true
			where = fmt.Sprintf("page %q", p.ID)
		}

		if p.Path == "" {
			addf("%s: missing path", where)
		} else if err := ValidatePattern(p.Path); err != nil {
			addf("%s: %v", where, err)
		}

		ids := make(map[string]bool)
		for j, b := range p.Beacons {
			bw := fmt.Sprintf("%s beacons[%d]", where, j)
			switch {
			case b.ID == "":
				addf("%s: missing id", bw)
			case ids[b.ID]:
				addf("%s: duplicate beacon id %q", bw, b.ID)
			default:
				ids[b.ID] = true
				bw = fmt.Sprintf("%s beacon %q", where, b.ID)
			}
			if b.Selector == "" {
				addf("%s: missing selector", bw)
			}
			checkTrigger(bw+" trigger", b.Trigger)
			checkPopover(bw+" popover", b.Popover)
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
