//go:build !tinygo

package hal

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Profile describes the emulated device: display geometry, tick cadences
// and the key bindings of the window front end.
type Profile struct {
	Display struct {
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
		Scale  int `yaml:"scale"`
	} `yaml:"display"`

	// SchedTickMillis is the scheduler tick period.
	SchedTickMillis int `yaml:"sched_tick_ms"`
	// AppTickMillis is the application timer tick period.
	AppTickMillis int `yaml:"app_tick_ms"`

	Keys struct {
		Rotate string `yaml:"rotate"`
		Drop   string `yaml:"drop"`
		Left   string `yaml:"left"`
		Right  string `yaml:"right"`
	} `yaml:"keys"`
}

// DefaultProfile mirrors the reference hardware: an 84x48 LCD, a 50 ms
// scheduler tick and a 4 ms application tick.
func DefaultProfile() Profile {
	var p Profile
	p.Display.Width = 84
	p.Display.Height = 48
	p.Display.Scale = 6
	p.SchedTickMillis = 50
	p.AppTickMillis = 4
	p.Keys.Rotate = "up"
	p.Keys.Drop = "down"
	p.Keys.Left = "left"
	p.Keys.Right = "right"
	return p
}

// LoadProfile reads a YAML profile, filling unset fields from the default.
func LoadProfile(path string) (Profile, error) {
	p := DefaultProfile()
	data, err := os.ReadFile(path)
	if err != nil {
		return p, err
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("profile %s: %w", path, err)
	}
	if err := p.validate(); err != nil {
		return p, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

func (p Profile) validate() error {
	if p.Display.Width <= 0 || p.Display.Height <= 0 {
		return fmt.Errorf("invalid display size %dx%d", p.Display.Width, p.Display.Height)
	}
	if p.SchedTickMillis <= 0 || p.AppTickMillis <= 0 {
		return fmt.Errorf("invalid tick periods %d/%d ms", p.SchedTickMillis, p.AppTickMillis)
	}
	return nil
}
