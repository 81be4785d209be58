package roi

// Score sums the point contributions of every technical attribute and maps the
// total onto the 5-level classification. Missing attributes fall into the
// cheapest bucket, so scoring never fails.
func Score(input ComplexityInput) ComplexityResult {
	points := 0

	// 1. Number of applications touched.
	switch {
	case input.NumApplications <= 2:
		points++
	case input.NumApplications <= 4:
		points += 2
	default:
		points += 3
	}

	// 2. Data type.
	switch input.DataType {
	case DataText:
		points += 2
	case DataOCR:
		points += 5
	default:
		points++
	}

	// 3. Environments. Multi-select is additive: operating across several
	// environments is strictly harder than any one of them alone.
	environments := input.Environment
	if len(environments) == 0 {
		environments = []Environment{EnvWeb}
	}
	for _, env := range environments {
		switch env {
		case EnvSAP:
			points += 2
		case EnvCitrix:
			points += 4
		default:
			points++
		}
	}

	// 4. Number of rules/steps.
	switch {
	case input.NumSteps < 20:
		points++
	case input.NumSteps <= 50:
		points += 3
	default:
		points += 5
	}

	// 5. Custom-built runtime penalty: no commercial RPA license means the
	// execution infrastructure has to be engineered from scratch.
	if input.UseRPALicense == "no" {
		points += 3
	}

	return ComplexityResult{
		TotalPoints:    points,
		Classification: classify(points),
	}
}

// classify maps total points onto a level. Bands are checked from the highest
// threshold down so they can never overlap.
func classify(points int) ComplexityLevel {
	switch {
	case points >= 14:
		return VeryComplex
	case points >= 11:
		return Complex
	case points >= 8:
		return Medium
	case points >= 6:
		return Simple
	default:
		return VerySimple
	}
}
