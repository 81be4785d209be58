package roi

// minutesPerMonth is the number of working minutes in a 160-hour month, used
// to convert a monthly FTE cost into a cost per handled minute.
const minutesPerMonth = 9600

// AsIsAnnualCost computes the annualized cost of the current manual process.
// The error rate inflates the whole cost proportionally: that fraction of the
// work has to be redone.
func AsIsAnnualCost(input OperationalInput) float64 {
	costPerMinute := input.FTECost / minutesPerMonth
	annual := input.Volume * input.AHT * 12 * costPerMinute * (1 + input.ErrorRate/100)
	return round2(annual)
}

// ApplyStrategicAdjustments layers SLA coverage, compliance risk and turnover
// costs on top of the operational AS-IS cost. The adjusted total is the
// denominator basis for ROI: automation removes these quantifiable costs too,
// not just labor time.
func ApplyStrategicAdjustments(input OperationalInput, strategic StrategicInput, cfg Config) StrategicAdjustments {
	adj := StrategicAdjustments{SLAMultiplier: 1}

	// 24/7 availability needs three shifts of human coverage to match.
	operational := AsIsAnnualCost(input)
	if strategic.Needs24h {
		adj.SLAMultiplier = 3
		operational *= 3
	}

	// Expected annual cost of failures, in whichever unit the caller priced them.
	switch strategic.ErrorCostUnit {
	case ErrorCostPerFailure:
		adj.RiskCost = (input.Volume * 12) * (input.ErrorRate / 100) * strategic.ErrorCost
	case ErrorCostMonthly:
		adj.RiskCost = strategic.ErrorCost * 12
	case ErrorCostAnnual:
		adj.RiskCost = strategic.ErrorCost
	}

	// Replacement and retraining cost of attrition across the displaced FTEs.
	if strategic.TurnoverRate > 0 {
		fteCount := (input.Volume * input.AHT) / minutesPerMonth
		replacementPct := cfg.Strategic.TurnoverReplacementCostPercent
		if replacementPct <= 0 {
			replacementPct = 20
		}
		adj.TurnoverCost = input.FTECost * 12 * (replacementPct / 100) * (strategic.TurnoverRate / 100) * fteCount
	}

	adj.AdjustedAsIs = operational + adj.RiskCost + adj.TurnoverCost
	return adj
}
