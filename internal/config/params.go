package config

import (
	"fmt"
	"math"
	"sort"
)

// params are the numeric fields sweeps and scenarios may override by name.
var params = map[string]func(c *Config, v float64){
	"seed":        func(c *Config, v float64) { c.Seed = int64(v) },
	"pairs":       func(c *Config, v float64) { c.Pairs = int(v) },
	"spawn_min":   func(c *Config, v float64) { c.SpawnMin = float32(v) },
	"spawn_max":   func(c *Config, v float64) { c.SpawnMax = float32(v) },
	"heading_min": func(c *Config, v float64) { c.HeadingMin = v },
	"heading_max": func(c *Config, v float64) { c.HeadingMax = v },
	"speed_scale": func(c *Config, v float64) { c.SpeedScale = v },
	"dt":          func(c *Config, v float64) { c.Dt = v },
	"families":    func(c *Config, v float64) { c.Families = int(v) },
	"flavors":     func(c *Config, v float64) { c.Flavors = int(v) },
	"workers":     func(c *Config, v float64) { c.Engine.Workers = int(v) },
	"coupling":    func(c *Config, v float64) { c.Engine.Coupling = v },
	"softening":   func(c *Config, v float64) { c.Engine.Softening = v },
	"world_scale": func(c *Config, v float64) { c.Render.WorldScale = float32(v) },
	"spin_rate":   func(c *Config, v float64) { c.Render.SpinRate = float32(v) },
}

// SetParam overrides one numeric field by its yaml name. Integer fields
// truncate.
func (c *Config) SetParam(name string, v float64) error {
	set, ok := params[name]
	if !ok {
		return fmt.Errorf("%w: unknown parameter %q", ErrInvalid, name)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be finite", ErrInvalid, name)
	}
	set(c, v)
	return nil
}

// SetParams applies every override in ps, in name order.
func (c *Config) SetParams(ps map[string]float64) error {
	names := make([]string, 0, len(ps))
	for name := range ps {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := c.SetParam(name, ps[name]); err != nil {
			return err
		}
	}
	return nil
}

func ParamNames() []string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
