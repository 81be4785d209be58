package roi

// monthlyHoursBase is the fixed monthly hour base each team member's share is
// applied to.
const monthlyHoursBase = 168

// EstimateDevelopment computes the one-time build cost and hours for the
// configured squad at the given complexity level. An empty squad yields a zero
// estimate rather than a guessed flat rate, so upstream misconfiguration stays
// visible.
func EstimateDevelopment(team []TeamMember, level ComplexityLevel) DevelopmentResult {
	var totalHours, totalCost float64
	for _, member := range team {
		share := member.SharesByComplexity[level]
		if share <= 0 {
			continue
		}
		hours := share * monthlyHoursBase
		totalHours += hours
		totalCost += hours * member.HourlyRate
	}

	return DevelopmentResult{
		Cost:  round2(totalCost),
		Hours: round2(totalHours),
	}
}

// BaselineHours recomputes the derived hours-per-level table from the team
// composition. The stored baselines are a cache of this, never authoritative.
func BaselineHours(team []TeamMember) map[ComplexityLevel]float64 {
	baselines := make(map[ComplexityLevel]float64, len(Levels))
	for _, level := range Levels {
		var hours float64
		for _, member := range team {
			hours += member.SharesByComplexity[level] * monthlyHoursBase
		}
		baselines[level] = round2(hours)
	}
	return baselines
}
