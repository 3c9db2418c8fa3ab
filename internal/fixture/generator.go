// Package fixture builds synthetic Day, Evening and Night projects for
// trying the tool and for tests.
package fixture

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/okian/lden/internal/domain/model"
	"github.com/okian/lden/pkg/logger"
)

// Constants for level generation.
const (
	minDistance  = 10.0  // m
	maxDistance  = 500.0 // m
	sourceSpread = 6.0   // dB between the loudest and quietest source
	peakBand     = 18    // 1 kHz
	tiltPerBand  = 0.8   // dB per band away from the peak
	jitter       = 1.0   // dB
	sphereLoss   = 11.0  // dB, 10·log10(4π)
)

// Period offsets relative to the day emission.
var periodOffset = [model.NumPeriods]float64{0, -3, -8}

// Generate builds a project holding the extra computations followed by one
// computation per period. All computations register every source and
// receiver; each pair is solved with probability cfg.Coverage.
func Generate(ctx context.Context, cfg Config) (*model.Project, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var seed [32]byte
	binary.LittleEndian.PutUint64(seed[:], cfg.Seed)
	src := rand.NewChaCha8(seed)
	g := &generator{cfg: cfg, src: src, rng: rand.New(src)}

	log := logger.Named("fixture")
	log.Info(ctx, "generating project",
		logger.String("name", cfg.Name),
		logger.Int("sources", cfg.Sources),
		logger.Int("receivers", cfg.Receivers),
		logger.Float64("coverage", cfg.Coverage))

	g.layout()
	p := &model.Project{Name: cfg.Name}
	for _, name := range cfg.Extra {
		if err := g.addComputation(ctx, p, name, 0); err != nil {
			return nil, err
		}
	}
	for _, period := range model.Periods {
		if err := g.addComputation(ctx, p, cfg.Periods[period], periodOffset[period]); err != nil {
			return nil, err
		}
	}

	log.Info(ctx, "generated project", logger.Int("computations", len(p.Computations)))
	return p, nil
}

type generator struct {
	cfg Config
	src *rand.ChaCha8
	rng *rand.Rand

	sources   []string
	receivers []string
	emission  []float64   // per source
	distance  [][]float64 // [receiver][source]
}

func (g *generator) layout() {
	g.sources = make([]string, g.cfg.Sources)
	g.emission = make([]float64, g.cfg.Sources)
	for s := range g.sources {
		g.sources[s] = fmt.Sprintf("S%02d", s+1)
		g.emission[s] = g.cfg.BaseLevel - g.rng.Float64()*sourceSpread
	}
	g.receivers = make([]string, g.cfg.Receivers)
	g.distance = make([][]float64, g.cfg.Receivers)
	for r := range g.receivers {
		g.receivers[r] = fmt.Sprintf("R%02d", r+1)
		g.distance[r] = make([]float64, g.cfg.Sources)
		for s := range g.distance[r] {
			g.distance[r][s] = minDistance + g.rng.Float64()*(maxDistance-minDistance)
		}
	}
}

func (g *generator) id() (uuid.UUID, error) {
	return uuid.NewRandomFromReader(g.src)
}

func (g *generator) element(name string) (model.Element, error) {
	id, err := g.id()
	if err != nil {
		return model.Element{}, fmt.Errorf("fixture: element id: %w", err)
	}
	return model.Element{ID: id, Name: name}, nil
}

func (g *generator) addComputation(ctx context.Context, p *model.Project, name string, offset float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c := p.AddComputation(name)
	id, err := g.id()
	if err != nil {
		return fmt.Errorf("fixture: computation id: %w", err)
	}
	c.ID = id

	for _, s := range g.sources {
		el, err := g.element(s)
		if err != nil {
			return err
		}
		if err := c.Result.AddSource(el); err != nil {
			return err
		}
	}
	for _, r := range g.receivers {
		el, err := g.element(r)
		if err != nil {
			return err
		}
		if err := c.Result.AddReceiver(el); err != nil {
			return err
		}
	}
	c.Result.BuildMatrix()

	for r, rec := range g.receivers {
		for s, srcName := range g.sources {
			if g.rng.Float64() >= g.cfg.Coverage {
				continue
			}
			if err := c.Result.SetSpectrum(rec, srcName, g.spectrum(r, s, offset)); err != nil {
				return err
			}
		}
	}
	return nil
}

// spectrum is a point source in free field: emission minus spherical
// spreading, shaped around 1 kHz.
func (g *generator) spectrum(r, s int, offset float64) model.Spectrum {
	var out model.Spectrum
	spreading := 20*math.Log10(g.distance[r][s]) + sphereLoss
	for b := range out {
		tilt := tiltPerBand * math.Abs(float64(b-peakBand))
		out[b] = g.emission[s] + offset - spreading - tilt + (g.rng.Float64()*2-1)*jitter
	}
	return out
}
