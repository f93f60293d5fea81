package config

import (
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/debtlab/loan-cli/internal/engine"
)

// Preset is a named loan scenario that overrides the loan portion of the
// input defaults. Presets never touch salary, rents, or rates of return;
// those stay with the configured defaults unless set per invocation.
type Preset struct {
	Description       string  `yaml:"description"`
	Principal         float64 `yaml:"principal"`
	AnnualRatePercent float64 `yaml:"annual_rate_percent"`
	TenureYears       int     `yaml:"tenure_years"`
}

// builtinPresets ship with the binary. "mba-student" is the classroom
// quick-load scenario.
var builtinPresets = map[string]Preset{
	"mba-student": {
		Description:       "Typical MBA student loan",
		Principal:         1500000,
		AnnualRatePercent: 9.0,
		TenureYears:       10,
	},
}

// LoadPresets merges presets from an optional YAML file over the built-in
// set. File entries win on name collision. An empty path returns just the
// built-ins.
func LoadPresets(path string) (map[string]Preset, error) {
	presets := make(map[string]Preset, len(builtinPresets))
	for name, p := range builtinPresets {
		presets[name] = p
	}

	if path == "" {
		return presets, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "presets: read %s", path)
	}

	var wrapper struct {
		Presets map[string]Preset `yaml:"presets"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrapf(err, "presets: parse %s", path)
	}

	for name, p := range wrapper.Presets {
		presets[name] = p
	}
	return presets, nil
}

// PresetNames returns the preset names in stable order for help text.
func PresetNames(presets map[string]Preset) []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply overlays the preset onto an input record.
func (p Preset) Apply(in engine.Inputs) engine.Inputs {
	in.Principal = p.Principal
	in.AnnualRatePercent = p.AnnualRatePercent
	in.TenureYears = p.TenureYears
	return in
}
