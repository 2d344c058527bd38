// Package beacon loads beacon definitions and decides which beacons are
// active on a route.
//
// A definition file lists pages. Each page has a path pattern and the
// beacons shown on matching routes. A beacon names its target selector and
// optionally overrides the trigger and popover settings declared at the top
// of the file.
package beacon

// Offset is a pixel shift in a definition file.
type Offset struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Trigger configures the marker pinned to the target element.
type Trigger struct {
	Anchor   string  `yaml:"anchor"`
	Offset   *Offset `yaml:"offset"`
	ZIndex   *int    `yaml:"z_index"`
	DelayMS  *int    `yaml:"delay_ms"`
	Strategy string  `yaml:"strategy"`
}

// Popover configures the panel opened from a trigger.
type Popover struct {
	Anchor string  `yaml:"anchor"`
	Offset *Offset `yaml:"offset"`
	Title  string  `yaml:"title"`
	Body   string  `yaml:"body"`
}

// Beacon is one hint attached to an element.
type Beacon struct {
	ID       string   `yaml:"id"`
	Selector string   `yaml:"selector"`
	Label    string   `yaml:"label"`
	Trigger  *Trigger `yaml:"trigger"`
	Popover  *Popover `yaml:"popover"`
}

// Page groups beacons shown on routes matching Path.
type Page struct {
	ID      string   `yaml:"id"`
	Path    string   `yaml:"path"`
	Beacons []Beacon `yaml:"beacons"`
}

// Config is a parsed definition file.
type Config struct {
	Trigger *Trigger `yaml:"trigger"`
	Popover *Popover `yaml:"popover"`
	Pages   []Page   `yaml:"pages"`
}

// Beacons returns every beacon across all pages in file order.
func (c *Config) Beacons() []Beacon {
	var out []Beacon
	for _, p := range c.Pages {
		out = append(out, p.Beacons...)
	}
	return out
}
