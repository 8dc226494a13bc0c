package analysis

import (
	"fmt"
	"math"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"capture-econ/internal/engine"
	"capture-econ/internal/model"
)

const (
	LowFactor  = 0.8
	HighFactor = 1.2
)

// Parameter is one entry of the sensitivity catalog.
type Parameter struct {
	Key   string
	Label string
	Unit  string

	field func(*model.Inputs) *float64
}

// Value reads the parameter from in.
func (p Parameter) Value(in model.Inputs) float64 {
	return *p.field(&in)
}

// With returns a copy of in with the parameter set to v.
func (p Parameter) With(in model.Inputs, v float64) model.Inputs {
	*p.field(&in) = v
	return in
}

var catalog = []Parameter{
	{Key: "incentive_rate", Label: "Incentive rate", Unit: "$/t", field: func(in *model.Inputs) *float64 { return &in.IncentiveRate }},
	{Key: "capture_rate", Label: "Capture rate", Unit: "t/day", field: func(in *model.Inputs) *float64 { return &in.CaptureRate }},
	{Key: "electricity_price", Label: "Electricity price", Unit: "$/kWh", field: func(in *model.Inputs) *float64 { return &in.ElectricityPrice }},
	{Key: "rated_power_kw", Label: "Rated power", Unit: "kW", field: func(in *model.Inputs) *float64 { return &in.RatedPowerKW }},
	{Key: "discount_rate", Label: "Discount rate", Unit: "fraction", field: func(in *model.Inputs) *float64 { return &in.DiscountRate }},
	{Key: "learning_rate", Label: "Learning rate", Unit: "fraction", field: func(in *model.Inputs) *float64 { return &in.LearningRate }},
	{Key: "offtake_price", Label: "Offtake price", Unit: "$/t", field: func(in *model.Inputs) *float64 { return &in.OfftakePrice }},
	{Key: "consumable_cost", Label: "Consumable cost", Unit: "$/unit", field: func(in *model.Inputs) *float64 { return &in.ConsumableCost }},
}

// Parameters returns the fixed sensitivity catalog in its canonical order.
func Parameters() []Parameter {
	out := make([]Parameter, len(catalog))
	copy(out, catalog)
	return out
}

// SensitivityEntry is the NPV swing for one parameter.
type SensitivityEntry struct {
	Key       string
	Label     string
	Unit      string
	BaseValue float64
	LowNPV    float64 // NPV with the parameter at LowFactor x base
	HighNPV   float64 // NPV with the parameter at HighFactor x base
	Delta     float64 // |HighNPV - LowNPV|

	// Fallbacks counts perturbed runs (0..2) that failed and were replaced by the base NPV.
	Fallbacks int
}

// Analyzer runs the one-factor-at-a-time sweep.
type Analyzer struct {
	log         *zap.Logger
	simulate    func(model.Inputs) (*engine.Result, error)
	concurrency int
}

func NewAnalyzer(logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		log:         logger,
		simulate:    engine.New(logger).Simulate,
		concurrency: runtime.GOMAXPROCS(0),
	}
}

// AnalyzeSensitivity runs the sweep with a silent logger.
func AnalyzeSensitivity(in model.Inputs, baseNPV float64) []SensitivityEntry {
	return NewAnalyzer(nil).Analyze(in, baseNPV)
}

// Analyze perturbs each catalog parameter to LowFactor and HighFactor times
// its base value, holding every other input at base, and ranks the parameters
// by NPV swing. A perturbed run that fails contributes baseNPV for that side.
func (a *Analyzer) Analyze(in model.Inputs, baseNPV float64) []SensitivityEntry {
	params := catalog
	npvs := make([]float64, 2*len(params))
	failed := make([]bool, 2*len(params))

	var g errgroup.Group
	g.SetLimit(a.concurrency)
	for i, p := range params {
		base := p.Value(in)
		for side, factor := range []float64{LowFactor, HighFactor} {
			p, factor := p, factor
			slot := 2*i + side
			perturbed := p.With(in, base*factor)
			g.Go(func() error {
				npv, err := a.run(perturbed)
				if err != nil {
					a.log.Warn("sensitivity run failed; using base NPV",
						zap.String("param", p.Key),
						zap.Float64("factor", factor),
						zap.Error(err),
					)
					npv = baseNPV
					failed[slot] = true
				}
				npvs[slot] = npv
				return nil
			})
		}
	}
	_ = g.Wait()

	out := make([]SensitivityEntry, len(params))
	for i, p := range params {
		lo, hi := npvs[2*i], npvs[2*i+1]
		e := SensitivityEntry{
			Key:       p.Key,
			Label:     p.Label,
			Unit:      p.Unit,
			BaseValue: p.Value(in),
			LowNPV:    lo,
			HighNPV:   hi,
			Delta:     math.Abs(hi - lo),
		}
		for _, f := range failed[2*i : 2*i+2] {
			if f {
				e.Fallbacks++
			}
		}
		out[i] = e
	}
	RankByDelta(out)
	return out
}

func (a *Analyzer) run(in model.Inputs) (npv float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	res, err := a.simulate(in)
	if err != nil {
		return 0, err
	}
	return res.NPV, nil
}
