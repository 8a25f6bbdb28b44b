package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/phytolab/epileaf/canopy"
	"github.com/phytolab/epileaf/examples/brownrust"
)

// A Scenario describes one simulation run: stand layout, clock delays,
// allocation policy, and the demo fungus constants.
type Scenario struct {
	Name string `yaml:"name"`

	Blades         int `yaml:"blades"`
	LeavesPerBlade int `yaml:"leaves_per_blade"`

	TBase               float64 `yaml:"tbase"`
	CanopyDelayDD       float64 `yaml:"canopy_delay_dd"`
	DispersalDelayHours float64 `yaml:"dispersal_delay_hours"`
	DiseaseDelayDD      float64 `yaml:"disease_delay_dd"`

	// Policy is one of nopriority, priority, geometric.
	Policy string `yaml:"policy"`

	DensityDispersalUnits int   `yaml:"density_dispersal_units"`
	Seed                  int64 `yaml:"seed"`

	Fungus FungusConfig `yaml:"fungus"`
}

// FungusConfig overrides the demo fungus constants. Zero values keep the
// defaults.
type FungusConfig struct {
	ChlorosisDD         float64 `yaml:"chlorosis_dd"`
	NecrosisDD          float64 `yaml:"necrosis_dd"`
	SporulationDD       float64 `yaml:"sporulation_dd"`
	GrowthRate          float64 `yaml:"growth_rate"`
	MaxSurface          float64 `yaml:"max_surface"`
	InfectionEfficiency float64 `yaml:"infection_efficiency"`
	EmissionRate        float64 `yaml:"emission_rate"`
}

// DefaultScenario returns a runnable seasonal scenario.
func DefaultScenario() Scenario {
	return Scenario{
		Name:                  "brown-rust-annual",
		Blades:                30,
		LeavesPerBlade:        7,
		CanopyDelayDD:         20,
		DispersalDelayHours:   24,
		DiseaseDelayDD:        20,
		Policy:                "geometric",
		DensityDispersalUnits: 500,
		Seed:                  42,
	}
}

// LoadScenario reads a scenario YAML file over the defaults.
func LoadScenario(path string) (Scenario, error) {
	s := DefaultScenario()

	data, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}

	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("scenario %s: %w", path, err)
	}

	return s, nil
}

// FungusParams merges the scenario overrides into the default constants.
func (s Scenario) FungusParams() brownrust.Params {
	p := brownrust.DefaultParams()

	if s.Fungus.ChlorosisDD > 0 {
		p.ChlorosisDD = s.Fungus.ChlorosisDD
	}
	if s.Fungus.NecrosisDD > 0 {
		p.NecrosisDD = s.Fungus.NecrosisDD
	}
	if s.Fungus.SporulationDD > 0 {
		p.SporulationDD = s.Fungus.SporulationDD
	}
	if s.Fungus.GrowthRate > 0 {
		p.GrowthRate = s.Fungus.GrowthRate
	}
	if s.Fungus.MaxSurface > 0 {
		p.MaxSurface = s.Fungus.MaxSurface
	}
	if s.Fungus.InfectionEfficiency > 0 {
		p.InfectionEfficiency = s.Fungus.InfectionEfficiency
	}
	if s.Fungus.EmissionRate > 0 {
		p.EmissionRate = s.Fungus.EmissionRate
	}

	return p
}

// BuildStore creates the initial stand: small emerged leaf elements,
// base to tip on each blade.
func (s Scenario) BuildStore() *canopy.MemStore {
	store := canopy.NewMemStore()

	for b := 0; b < s.Blades; b++ {
		blade := fmt.Sprintf("blade_%03d", b)
		for l := 0; l < s.LeavesPerBlade; l++ {
			store.AddLeaf(blade, &canopy.LeafUnit{
				ID:        canopy.LeafID(fmt.Sprintf("%s_leaf_%02d", blade, l)),
				Area:      0.5,
				GreenArea: 0.5,
				Length:    1,
			})
		}
	}

	return store
}
