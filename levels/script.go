package levels

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"pandrop/sim"
)

// Motion is a compiled tengo hazard-motion script. The script reads the
// global `t` (seconds since the attempt started) and assigns `dx` and `dy`,
// e.g. a swinging knife:
//
//	math := import("math")
//	dx = math.sin(t*2.4) * 46
//	dy = 0
type Motion struct {
	compiled *tengo.Compiled
}

// LoadMotion loads and compiles a script by name from levels/scripts.
func LoadMotion(name string) (*Motion, error) {
	src, err := LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("levels: load script %s: %w", name, err)
	}
	return CompileMotion(src)
}

// CompileMotion compiles motion script source. Compilation happens once per
// hazard; evaluation clones the compiled program so scripts stay stateless.
func CompileMotion(src []byte) (*Motion, error) {
	script := tengo.NewScript(src)
	for name, v := range map[string]float64{"t": 0, "dx": 0, "dy": 0} {
		if err := script.Add(name, v); err != nil {
			return nil, fmt.Errorf("levels: script setup: %w", err)
		}
	}
	script.SetImports(stdlib.GetModuleMap("math", "rand"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("levels: compile script: %w", err)
	}
	return &Motion{compiled: compiled}, nil
}

// OffsetAt evaluates the script at t seconds. Script errors yield a zero
// offset so a bad script can never corrupt the simulation.
func (m *Motion) OffsetAt(t float64) sim.Vec {
	if m == nil || m.compiled == nil {
		return sim.Vec{}
	}
	c := m.compiled.Clone()
	if err := c.Set("t", t); err != nil {
		return sim.Vec{}
	}
	if err := c.Run(); err != nil {
		return sim.Vec{}
	}
	return sim.V(c.Get("dx").Float(), c.Get("dy").Float())
}
