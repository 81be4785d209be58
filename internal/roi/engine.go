package roi

import (
	"context"
	"math"
)

// ConfigSource supplies the current global configuration. The settings cache
// implements it; tests substitute fixed configs.
type ConfigSource interface {
	Get(ctx context.Context) (Config, error)
}

// Engine composes the scorer and cost models into full ROI calculations.
type Engine struct {
	config ConfigSource
}

// NewEngine returns an engine reading configuration from source on every
// calculation.
func NewEngine(source ConfigSource) *Engine {
	return &Engine{config: source}
}

// Calculate fetches the current configuration and runs the full ROI pipeline.
// The only failure mode is an unavailable configuration; every sub-step is a
// total function over already-defaulted inputs.
func (e *Engine) Calculate(ctx context.Context, operational OperationalInput, complexity ComplexityInput, strategic StrategicInput) (Result, error) {
	cfg, err := e.config.Get(ctx)
	if err != nil {
		return Result{}, err
	}
	return CalculateWithConfig(operational, complexity, strategic, cfg), nil
}

// CalculateWithConfig runs the full ROI pipeline against an explicit
// configuration. Monetary outputs are rounded to cents only here, at the
// exposure boundary, so intermediate composition does not compound rounding
// error.
func CalculateWithConfig(operational OperationalInput, complexity ComplexityInput, strategic StrategicInput, cfg Config) Result {
	score := Score(complexity)
	dev := EstimateDevelopment(cfg.TeamComposition, score.Classification)
	adjustments := ApplyStrategicAdjustments(operational, strategic, cfg)
	toBe, maintenance := ToBeAnnualCost(complexity, strategic, operational, score.Classification, dev.Cost, cfg)

	accuracyFactor := cfg.Strategic.ROIAccuracyPercentage / 100
	if accuracyFactor <= 0 {
		accuracyFactor = 1
	}

	grossSavings := adjustments.AdjustedAsIs - toBe.Total
	annualSavings := grossSavings * accuracyFactor
	monthlySavings := annualSavings / 12

	var roiYear1 float64
	if adjustments.AdjustedAsIs != 0 {
		roiYear1 = (annualSavings / adjustments.AdjustedAsIs) * 100
	}

	roiYear3 := roiYear1 * 3
	if dev.Cost > 0 {
		roiYear3 = ((annualSavings * 3) - dev.Cost) / dev.Cost * 100
	}

	var payback *float64
	if monthlySavings > 0 {
		months := round1(dev.Cost / monthlySavings)
		payback = &months
	}

	operationalAsIs := adjustments.AdjustedAsIs - adjustments.RiskCost - adjustments.TurnoverCost

	return Result{
		Complexity: score,
		Strategic: StrategicAdjustments{
			RiskCost:      round2(adjustments.RiskCost),
			TurnoverCost:  round2(adjustments.TurnoverCost),
			SLAMultiplier: adjustments.SLAMultiplier,
			AdjustedAsIs:  round2(adjustments.AdjustedAsIs),
		},
		Maintenance: MaintenanceBreakdown{
			MonthlyCost:     round2(maintenance.MonthlyCost),
			AnnualCost:      round2(maintenance.AnnualCost),
			FTECost:         maintenance.FTECost,
			CapacityDivisor: maintenance.CapacityDivisor,
		},
		Costs: Costs{
			AsIs: AsIsCosts{
				Annual:      round2(adjustments.AdjustedAsIs),
				Operational: round2(operationalAsIs),
				Risk:        round2(adjustments.RiskCost),
				Turnover:    round2(adjustments.TurnoverCost),
				Monthly:     round2(adjustments.AdjustedAsIs / 12),
			},
			Development:      dev.Cost,
			DevelopmentHours: dev.Hours,
			ToBe: ToBeBreakdown{
				LicenseCost:     round2(toBe.LicenseCost),
				InfraCost:       round2(toBe.InfraCost),
				MaintenanceCost: round2(toBe.MaintenanceCost),
				GenAICost:       round2(toBe.GenAICost),
				IDPCost:         round2(toBe.IDPCost),
				Total:           round2(toBe.Total),
			},
		},
		ROI: Summary{
			ROIYear1:           round2(roiYear1),
			ROIYear3:           round2(roiYear3),
			AnnualSavings:      round2(annualSavings),
			GrossAnnualSavings: round2(grossSavings),
			MonthlySavings:     round2(monthlySavings),
			PaybackMonths:      payback,
		},
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
