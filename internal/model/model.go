// Package model assembles the Milky Way + LMC potential from its mass
// components and answers field, centre, and orbit queries against it.
//
// A handle is built once from a Config, is read-only afterwards, and is
// safe for concurrent queries. Positions, velocities, and times cross
// the API in physical units (kpc, km/s, Gyr) unless a method name says
// Virial; internally everything runs in the virial convention where
// G = Mvir = Rvir = 1.
package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sophialilleengen/mwlmc/internal/coefs"
	"github.com/sophialilleengen/mwlmc/internal/field"
	"github.com/sophialilleengen/mwlmc/internal/orient"
	"github.com/sophialilleengen/mwlmc/internal/units"
)

// Domain errors for model construction and queries.
var (
	// ErrBadScale indicates a non-positive expansion scale length.
	ErrBadScale = errors.New("model: expansion scale must be positive")

	// ErrBadDisc indicates disc parameters outside their valid range.
	ErrBadDisc = errors.New("model: disc parameters out of valid bounds")

	// ErrNotFinite indicates a query position or velocity with NaN or Inf.
	ErrNotFinite = errors.New("model: position or velocity is not finite")

	// ErrBadTimespan indicates an integration span with tend <= tbegin.
	ErrBadTimespan = errors.New("model: integration timespan is empty")

	// ErrBadStep indicates a non-positive integration timestep.
	ErrBadStep = errors.New("model: timestep must be positive")

	// ErrUnstable indicates an orbit that diverged to NaN or Inf.
	ErrUnstable = errors.New("model: orbit diverged (NaN or Inf state)")
)

// ExpansionConfig locates one basis-function expansion on disk.
type ExpansionConfig struct {
	// CoefPath is the binary coefficient table for the component.
	CoefPath string

	// CentrePath is the component's centre trajectory. Empty pins the
	// expansion at the origin.
	CentrePath string

	// Scale is the basis scale length in virial units.
	Scale float64
}

// DiscConfig holds Miyamoto-Nagai disc parameters in virial units.
type DiscConfig struct {
	Mass float64
	A    float64
	B    float64
}

// Config collects everything New needs to assemble a model.
type Config struct {
	// Scaling converts between virial and physical units. The zero
	// value selects the Milky Way convention.
	Scaling units.Scaling

	Disc DiscConfig
	Halo ExpansionConfig
	LMC  ExpansionConfig

	// Logger receives initialization and extrapolation warnings.
	// Nil discards them.
	Logger *zerolog.Logger
}

// MWLMC is the assembled model handle.
type MWLMC struct {
	scale units.Scaling
	disc  *field.MiyamotoNagai
	halo  *field.SphExpansion
	lmc   *field.SphExpansion
	comps map[field.Component]field.Evaluator
	log   zerolog.Logger
}

// New loads the coefficient tables and centre trajectories named by cfg
// and assembles the model. Any missing or malformed data file fails
// construction.
func New(cfg Config) (*MWLMC, error) {
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}

	scaling := cfg.Scaling
	if scaling == (units.Scaling{}) {
		scaling = units.MilkyWay()
	}

	if cfg.Halo.Scale <= 0 || cfg.LMC.Scale <= 0 {
		return nil, ErrBadScale
	}
	if cfg.Disc.Mass <= 0 || cfg.Disc.A < 0 || cfg.Disc.B <= 0 {
		return nil, ErrBadDisc
	}

	halo, haloCen, err := loadExpansion(cfg.Halo, log)
	if err != nil {
		return nil, fmt.Errorf("model: halo: %w", err)
	}
	lmc, _, err := loadExpansion(cfg.LMC, log)
	if err != nil {
		return nil, fmt.Errorf("model: lmc: %w", err)
	}

	// The disc is rigid and rides along with the halo expansion centre.
	disc := field.NewMiyamotoNagai(cfg.Disc.Mass, cfg.Disc.A, cfg.Disc.B, haloCen)

	m := &MWLMC{
		scale: scaling,
		disc:  disc,
		halo:  halo,
		lmc:   lmc,
		comps: map[field.Component]field.Evaluator{
			field.Disc: disc,
			field.Halo: halo,
			field.LMC:  lmc,
		},
		log: log,
	}

	tmin, tmax := halo.Span()
	log.Info().
		Float64("tmin", tmin).
		Float64("tmax", tmax).
		Float64("rvir", scaling.Rvir).
		Float64("mvir", scaling.Mvir).
		Msg("model assembled")

	return m, nil
}

func loadExpansion(cfg ExpansionConfig, log zerolog.Logger) (*field.SphExpansion, *orient.Centres, error) {
	tab, err := coefs.Load(cfg.CoefPath)
	if err != nil {
		return nil, nil, err
	}
	tab.SetLogger(log)

	cen := orient.Inertial()
	if cfg.CentrePath != "" {
		cen, err = orient.Load(cfg.CentrePath)
		if err != nil {
			return nil, nil, err
		}
	}

	return field.NewSphExpansion(cfg.Scale, tab, cen), cen, nil
}

// Scaling returns the unit conversion in effect.
func (m *MWLMC) Scaling() units.Scaling { return m.scale }

// Components lists the model's mass components in reporting order.
func (m *MWLMC) Components() []field.Component {
	out := make([]field.Component, len(field.Components))
	copy(out, field.Components)
	return out
}

// FieldsVirial evaluates one component at virial time t and virial
// position pos.
func (m *MWLMC) FieldsVirial(comp field.Component, t float64, pos r3.Vec) (field.Sample, error) {
	ev, ok := m.comps[comp]
	if !ok {
		return field.Sample{}, fmt.Errorf("%w: %d", field.ErrUnknownComponent, int(comp))
	}
	if !finiteVec(pos) {
		return field.Sample{}, fmt.Errorf("%w: position (%v, %v, %v)", ErrNotFinite, pos.X, pos.Y, pos.Z)
	}
	return ev.Sample(t, pos), nil
}

// Fields evaluates one component at time t in Gyr and position pos in
// kpc, returning forces in (km/s)^2/kpc, density in Msun/kpc^3, and
// potential in (km/s)^2.
func (m *MWLMC) Fields(comp field.Component, t float64, pos r3.Vec) (field.Sample, error) {
	s, err := m.FieldsVirial(comp, m.scale.TimeToVirial(t), m.scale.PositionToVirial(pos))
	if err != nil {
		return field.Sample{}, err
	}
	return m.toPhysical(s), nil
}

// AllFields sums Fields over every component.
func (m *MWLMC) AllFields(t float64, pos r3.Vec) (field.Sample, error) {
	s, err := m.AllFieldsVirial(m.scale.TimeToVirial(t), m.scale.PositionToVirial(pos))
	if err != nil {
		return field.Sample{}, err
	}
	return m.toPhysical(s), nil
}

// AllFieldsVirial sums FieldsVirial over every component.
func (m *MWLMC) AllFieldsVirial(t float64, pos r3.Vec) (field.Sample, error) {
	if !finiteVec(pos) {
		return field.Sample{}, fmt.Errorf("%w: position (%v, %v, %v)", ErrNotFinite, pos.X, pos.Y, pos.Z)
	}
	var total field.Sample
	for _, comp := range field.Components {
		total = total.Add(m.comps[comp].Sample(t, pos))
	}
	return total, nil
}

func (m *MWLMC) toPhysical(s field.Sample) field.Sample {
	return field.Sample{
		Force:     m.scale.ForceVecToPhysical(s.Force),
		Density:   m.scale.DensityToPhysical(s.Density),
		Potential: m.scale.PotentialToPhysical(s.Potential),
	}
}

// ExpansionCentres returns the centre of every component at time t in
// Gyr, one vector per component in Components order. The disc shares
// the halo centre.
func (m *MWLMC) ExpansionCentres(t float64, u units.Unit) ([]r3.Vec, error) {
	cen := m.ExpansionCentresVirial(m.scale.TimeToVirial(t))
	switch u {
	case units.Virial:
		return cen, nil
	case units.Physical:
		for i := range cen {
			cen[i] = m.scale.PositionToPhysical(cen[i])
		}
		return cen, nil
	default:
		return nil, fmt.Errorf("model: unknown unit convention %v", u)
	}
}

// ExpansionCentresVirial returns the component centres at virial time t.
func (m *MWLMC) ExpansionCentresVirial(t float64) []r3.Vec {
	cen := make([]r3.Vec, len(field.Components))
	for i, comp := range field.Components {
		cen[i] = m.comps[comp].Centre(t)
	}
	return cen
}

// CentreTrack is one component's tracked centre trajectory.
type CentreTrack struct {
	Component field.Component
	Samples   []orient.Sample
}

// CentreTrajectories returns the full centre trajectories of every
// component, converted to the requested unit convention. Components
// pinned at the origin contribute a single zero sample.
func (m *MWLMC) CentreTrajectories(u units.Unit) ([]CentreTrack, error) {
	if u != units.Virial && u != units.Physical {
		return nil, fmt.Errorf("model: unknown unit convention %v", u)
	}

	tracks := make([]CentreTrack, 0, len(field.Components))
	for _, comp := range field.Components {
		samples := centreSamples(m.comps[comp])
		if u == units.Physical {
			for i := range samples {
				samples[i].T = m.scale.TimeToPhysical(samples[i].T)
				samples[i].Pos = m.scale.PositionToPhysical(samples[i].Pos)
				samples[i].Vel = m.scale.VelocityVecToPhysical(samples[i].Vel)
			}
		}
		tracks = append(tracks, CentreTrack{Component: comp, Samples: samples})
	}
	return tracks, nil
}

func centreSamples(ev field.Evaluator) []orient.Sample {
	type tracked interface {
		Centres() *orient.Centres
	}
	if tr, ok := ev.(tracked); ok {
		c := tr.Centres()
		if c.Tracked() {
			return c.Samples()
		}
	}
	return []orient.Sample{{}}
}

func finiteVec(v r3.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}
