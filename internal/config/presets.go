package config

import "sort"

var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"pair": preset(func(c *Config) {
		c.Pairs = 1
		c.SpawnMax = 4
		c.Camera.Eye = [3]float32{0.02, -0.02, 0.06}
		c.Camera.Target = [3]float32{0.02, 0.02, 0.02}
		c.Engine.Backend = "serial"
	}),
	"swarm": preset(func(c *Config) {
		c.Pairs = 100
		c.SpawnMax = 120
		c.Engine.Backend = "parallel"
		c.Engine.Softening = 0.5
	}),
	"quarks": preset(func(c *Config) {
		c.Pairs = 20
		c.Flavors = 2
		c.Engine.Integrator = "leapfrog"
	}),
}

func preset(apply func(*Config)) *Config {
	c := DefaultConfig()
	apply(c)
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
