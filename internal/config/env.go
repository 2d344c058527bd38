package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// EnvPrefix is the prefix of every recognised environment variable.
const EnvPrefix = "REPERE_"

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// envSetters maps environment variables to the setting they override.
var envSetters = map[string]func(c *Config, v string) error{
	"REPERE_LOG_LEVEL": func(c *Config, v string) error {
		c.Logging.Level = strings.ToLower(v)
		return nil
	},
	"REPERE_DOCUMENT": func(c *Config, v string) error {
		c.Document.Path = v
		return nil
	},
	"REPERE_WATCH": func(c *Config, v string) error {
		b, err := parseBool(v)
		if err != nil {
			return err
		}
		c.Document.Watch = b
		return nil
	},
	"REPERE_BEACONS": func(c *Config, v string) error {
		c.Beacons.Path = v
		return nil
	},
	"REPERE_ROUTE": func(c *Config, v string) error {
		c.Beacons.Route = v
		return nil
	},
	"REPERE_STRATEGY": func(c *Config, v string) error {
		c.Tracker.Strategy = strings.ToLower(v)
		return nil
	},
	"REPERE_Z_INDEX": func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		c.Tracker.ZIndex = n
		return nil
	},
	"REPERE_DELAY_MS": func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		c.Tracker.DelayMS = n
		return nil
	},
}

// EnvVars returns the recognised environment variable names in sorted
// order.
func EnvVars() []string {
	names := make([]string, 0, len(envSetters))
	for k := range envSetters {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ApplyEnv overrides settings from environment variables found by lookup.
// Empty values are treated as set.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	for _, name := range EnvVars() {
		set := envSetters[name]
		v, ok := lookup(name)
		if !ok {
			continue
		}
		if err := set(c, strings.TrimSpace(v)); err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidEnv, name, v, err)
		}
	}
	return nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off", "":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %q", s)
}
