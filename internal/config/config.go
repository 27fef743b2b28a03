// Package config describes a model data directory: where the
// coefficient tables and centre files live, the unit calibration, and
// the integration defaults. The parameters ship as model.yaml inside
// the data directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/sophialilleengen/mwlmc/internal/model"
	"github.com/sophialilleengen/mwlmc/internal/units"
)

const (
	// ModelFile is the parameter file inside a data directory.
	ModelFile = "model.yaml"

	// EnvDataDir overrides the data directory location.
	EnvDataDir = "MWLMC_DATA"

	// DefaultDataDir is used when neither flag nor environment say
	// otherwise.
	DefaultDataDir = "./mwlmc-data"
)

type Config struct {
	Rvir  float64         `yaml:"rvir"` // kpc
	Mvir  float64         `yaml:"mvir"` // Msun
	Disc  DiscConfig      `yaml:"disc"`
	Halo  ComponentConfig `yaml:"halo"`
	LMC   ComponentConfig `yaml:"lmc"`
	Orbit OrbitConfig     `yaml:"orbit"`
}

// DiscConfig holds the Miyamoto-Nagai parameters in virial units.
type DiscConfig struct {
	Mass float64 `yaml:"mass"`
	A    float64 `yaml:"a"`
	B    float64 `yaml:"b"`
}

// ComponentConfig names one expansion's files, relative to the data
// directory.
type ComponentConfig struct {
	Coefficients string  `yaml:"coefficients"`
	Centres      string  `yaml:"centres,omitempty"`
	Scale        float64 `yaml:"scale"`
}

// OrbitConfig carries the integration defaults in virial time.
type OrbitConfig struct {
	TBegin     float64 `yaml:"tbegin"`
	TEnd       float64 `yaml:"tend"`
	Dt         float64 `yaml:"dt"`
	Integrator string  `yaml:"integrator"`
}

func DefaultConfig() *Config {
	return &Config{
		Rvir: 282.0,
		Mvir: 1.57e12,
		Disc: DiscConfig{Mass: 0.043, A: 0.0106, B: 0.001},
		Halo: ComponentConfig{
			Coefficients: "halo.coefs",
			Centres:      "halo.centre",
			Scale:        0.084,
		},
		LMC: ComponentConfig{
			Coefficients: "lmc.coefs",
			Centres:      "lmc.centre",
			Scale:        0.02,
		},
		Orbit: OrbitConfig{
			TBegin:     model.DefaultTBegin,
			TEnd:       model.DefaultTEnd,
			Dt:         model.DefaultDt,
			Integrator: model.DefaultIntegrator,
		},
	}
}

// Load reads a parameter file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDir reads the parameter file of a data directory.
func LoadDir(dataDir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dataDir, ModelFile))
	if err != nil {
		return nil, fmt.Errorf("config: %s has no readable %s (generate one with mkdata): %w",
			dataDir, ModelFile, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ModelConfig resolves the file names against the data directory and
// maps the parameters onto a model configuration.
func (c *Config) ModelConfig(dataDir string) model.Config {
	join := func(name string) string {
		if name == "" {
			return ""
		}
		return filepath.Join(dataDir, name)
	}

	return model.Config{
		Scaling: units.Scaling{Rvir: c.Rvir, Mvir: c.Mvir},
		Disc:    model.DiscConfig{Mass: c.Disc.Mass, A: c.Disc.A, B: c.Disc.B},
		Halo: model.ExpansionConfig{
			CoefPath:   join(c.Halo.Coefficients),
			CentrePath: join(c.Halo.Centres),
			Scale:      c.Halo.Scale,
		},
		LMC: model.ExpansionConfig{
			CoefPath:   join(c.LMC.Coefficients),
			CentrePath: join(c.LMC.Centres),
			Scale:      c.LMC.Scale,
		},
	}
}

// OrbitOptions maps the integration defaults onto orbit options.
func (c *Config) OrbitOptions() model.Options {
	return model.Options{
		TBegin:     c.Orbit.TBegin,
		TEnd:       c.Orbit.TEnd,
		Dt:         c.Orbit.Dt,
		Integrator: c.Orbit.Integrator,
	}
}

// InitViper registers the data directory key with its default and
// environment binding. The CLI layers its --data flag on top.
func InitViper() {
	viper.SetDefault("data", DefaultDataDir)
	_ = viper.BindEnv("data", EnvDataDir)
}

// DataDir resolves the data directory: flag over environment over
// default.
func DataDir() string {
	return viper.GetString("data")
}
