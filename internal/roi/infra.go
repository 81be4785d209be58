package roi

// ToBeAnnualCost computes the annual cost of operating the automated solution:
// base infrastructure, RPA licensing, GenAI transaction costs, IDP licensing
// and maintenance. developmentCost feeds the maintenance fallback used when
// the maintenance squad is not configured.
func ToBeAnnualCost(complexity ComplexityInput, strategic StrategicInput, operational OperationalInput, classification ComplexityLevel, developmentCost float64, cfg Config) (ToBeBreakdown, MaintenanceBreakdown) {
	breakdown := ToBeBreakdown{
		InfraCost: cfg.InfraCosts.VirtualMachineAnnual + cfg.InfraCosts.DatabaseAnnual,
	}

	// License cost only applies to commercial RPA runtimes. An explicit
	// per-project cost wins over the configured rate, including zero.
	if complexity.UseRPALicense != "no" {
		if complexity.RPALicenseCost != nil {
			breakdown.LicenseCost = *complexity.RPALicenseCost
		} else {
			breakdown.LicenseCost = cfg.InfraCosts.RPALicenseAnnual
		}
	}

	// GenAI token spend only exists for content-creating automations.
	if strategic.CognitiveLevel == CognitiveCreation {
		rate := cfg.Strategic.GenAICostPerTransaction
		if rate <= 0 {
			rate = 0.05
		}
		breakdown.GenAICost = (operational.Volume * 12) * rate
	}

	// Document-processing license when inputs always vary or require OCR.
	if strategic.InputVariability == VariabilityAlways || complexity.DataType == DataOCR {
		breakdown.IDPCost = cfg.Strategic.IDPLicenseAnnual
		if breakdown.IDPCost <= 0 {
			breakdown.IDPCost = 5000
		}
	}

	maintenance := maintenanceCost(classification, developmentCost, cfg.Maintenance)
	breakdown.MaintenanceCost = maintenance.AnnualCost

	breakdown.Total = breakdown.InfraCost + breakdown.LicenseCost + breakdown.MaintenanceCost + breakdown.GenAICost + breakdown.IDPCost
	return breakdown, maintenance
}

// maintenanceCost derives the annual maintenance cost from the fraction of a
// maintenance FTE the robot consumes at its complexity band. Without a
// configured squad it falls back to 15% of the development cost.
func maintenanceCost(classification ComplexityLevel, developmentCost float64, cfg MaintenanceConfig) MaintenanceBreakdown {
	var divisor float64
	switch classification {
	case VerySimple, Simple:
		divisor = cfg.CapacityLow
	case VeryComplex, Complex:
		divisor = cfg.CapacityHigh
	default:
		divisor = cfg.CapacityMedium
	}

	breakdown := MaintenanceBreakdown{
		FTECost:         cfg.FTEMonthlyCost,
		CapacityDivisor: divisor,
	}

	if cfg.FTEMonthlyCost > 0 && divisor > 0 {
		breakdown.AnnualCost = (cfg.FTEMonthlyCost / divisor) * 12
	} else {
		breakdown.AnnualCost = developmentCost * 0.15
	}
	breakdown.MonthlyCost = breakdown.AnnualCost / 12
	return breakdown
}
