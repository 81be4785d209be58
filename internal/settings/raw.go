// Package settings owns the global configuration document: persistence,
// normalization of legacy shapes, and the TTL cache the calculation engine
// reads through.
package settings

import (
	"math"
	"time"

	"github.com/rpanav/roinav/internal/roi"
)

// TeamMemberDoc is one squad role as stored. Older documents carry a flat
// rate/share pair instead of hourly_rate/shares_by_complexity; both shapes are
// accepted here and normalized before the core ever sees them.
type TeamMemberDoc struct {
	Role               string             `json:"role"`
	HourlyRate         *float64           `json:"hourly_rate,omitempty"`
	Rate               *float64           `json:"rate,omitempty"`
	SharesByComplexity map[string]float64 `json:"shares_by_complexity,omitempty"`
	Share              *float64           `json:"share,omitempty"`
}

// InfraCostsDoc mirrors the stored infra_costs section.
type InfraCostsDoc struct {
	RPALicenseAnnual     float64 `json:"rpa_license_annual"`
	VirtualMachineAnnual float64 `json:"virtual_machine_annual"`
	DatabaseAnnual       float64 `json:"database_annual"`
}

// StrategicConfigDoc mirrors the stored strategic_config section.
type StrategicConfigDoc struct {
	GenAICostPerTransaction        float64 `json:"genai_cost_per_transaction"`
	IDPLicenseAnnual               float64 `json:"idp_license_annual"`
	TurnoverReplacementCostPercent float64 `json:"turnover_replacement_cost_percentage"`
	ROIAccuracyPercentage          float64 `json:"roi_accuracy_percentage"`
}

// MaintenanceConfigDoc mirrors the stored maintenance_config section.
type MaintenanceConfigDoc struct {
	FTEMonthlyCost float64 `json:"fte_monthly_cost"`
	CapacityLow    float64 `json:"capacity_low"`
	CapacityMedium float64 `json:"capacity_medium"`
	CapacityHigh   float64 `json:"capacity_high"`
}

// Document is the stored global configuration. Field names match the
// persisted JSON exactly; baselines are derived from team composition and
// recomputed on every write, never trusted as input.
type Document struct {
	TeamComposition   []TeamMemberDoc      `json:"team_composition"`
	InfraCosts        InfraCostsDoc        `json:"infra_costs"`
	StrategicConfig   StrategicConfigDoc   `json:"strategic_config"`
	MaintenanceConfig MaintenanceConfigDoc `json:"maintenance_config"`
	Baselines         map[string]float64   `json:"baselines,omitempty"`
	UpdatedAt         string               `json:"updated_at,omitempty"`
}

// Normalize converts the stored document into the configuration shape the
// calculation core consumes. Missing or malformed numeric fields degrade to
// zero; legacy flat shares fan out to every complexity level.
func (d Document) Normalize() roi.Config {
	cfg := roi.Config{
		InfraCosts: roi.InfraCosts{
			RPALicenseAnnual:     sanitize(d.InfraCosts.RPALicenseAnnual),
			VirtualMachineAnnual: sanitize(d.InfraCosts.VirtualMachineAnnual),
			DatabaseAnnual:       sanitize(d.InfraCosts.DatabaseAnnual),
		},
		Strategic: roi.StrategicConfig{
			GenAICostPerTransaction:        sanitize(d.StrategicConfig.GenAICostPerTransaction),
			IDPLicenseAnnual:               sanitize(d.StrategicConfig.IDPLicenseAnnual),
			TurnoverReplacementCostPercent: sanitize(d.StrategicConfig.TurnoverReplacementCostPercent),
			ROIAccuracyPercentage:          sanitize(d.StrategicConfig.ROIAccuracyPercentage),
		},
		Maintenance: roi.MaintenanceConfig{
			FTEMonthlyCost: sanitize(d.MaintenanceConfig.FTEMonthlyCost),
			CapacityLow:    sanitize(d.MaintenanceConfig.CapacityLow),
			CapacityMedium: sanitize(d.MaintenanceConfig.CapacityMedium),
			CapacityHigh:   sanitize(d.MaintenanceConfig.CapacityHigh),
		},
	}

	for _, member := range d.TeamComposition {
		cfg.TeamComposition = append(cfg.TeamComposition, normalizeMember(member))
	}

	return cfg
}

func normalizeMember(member TeamMemberDoc) roi.TeamMember {
	rate := 0.0
	if member.HourlyRate != nil {
		rate = sanitize(*member.HourlyRate)
	} else if member.Rate != nil {
		rate = sanitize(*member.Rate)
	}

	shares := make(map[roi.ComplexityLevel]float64, len(roi.Levels))
	if len(member.SharesByComplexity) > 0 {
		for _, level := range roi.Levels {
			shares[level] = sanitize(member.SharesByComplexity[string(level)])
		}
	} else if member.Share != nil {
		flat := sanitize(*member.Share)
		for _, level := range roi.Levels {
			shares[level] = flat
		}
	}

	return roi.TeamMember{
		Role:               member.Role,
		HourlyRate:         rate,
		SharesByComplexity: shares,
	}
}

// sanitize coerces NaN, infinities and negatives to 0 so stored garbage never
// reaches the arithmetic.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// RecomputeBaselines refreshes the derived hours-per-level cache from the
// team composition.
func (d *Document) RecomputeBaselines() {
	baselines := roi.BaselineHours(d.Normalize().TeamComposition)
	d.Baselines = make(map[string]float64, len(baselines))
	for level, hours := range baselines {
		d.Baselines[string(level)] = hours
	}
}

// DefaultDocument returns the stored form of the fallback configuration,
// served when no settings document exists yet.
func DefaultDocument() Document {
	cfg := roi.DefaultConfig()

	doc := Document{
		InfraCosts: InfraCostsDoc{
			RPALicenseAnnual:     cfg.InfraCosts.RPALicenseAnnual,
			VirtualMachineAnnual: cfg.InfraCosts.VirtualMachineAnnual,
			DatabaseAnnual:       cfg.InfraCosts.DatabaseAnnual,
		},
		StrategicConfig: StrategicConfigDoc{
			GenAICostPerTransaction:        cfg.Strategic.GenAICostPerTransaction,
			IDPLicenseAnnual:               cfg.Strategic.IDPLicenseAnnual,
			TurnoverReplacementCostPercent: cfg.Strategic.TurnoverReplacementCostPercent,
			ROIAccuracyPercentage:          cfg.Strategic.ROIAccuracyPercentage,
		},
		MaintenanceConfig: MaintenanceConfigDoc{
			FTEMonthlyCost: cfg.Maintenance.FTEMonthlyCost,
			CapacityLow:    cfg.Maintenance.CapacityLow,
			CapacityMedium: cfg.Maintenance.CapacityMedium,
			CapacityHigh:   cfg.Maintenance.CapacityHigh,
		},
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	for _, member := range cfg.TeamComposition {
		rate := member.HourlyRate
		shares := make(map[string]float64, len(member.SharesByComplexity))
		for level, share := range member.SharesByComplexity {
			shares[string(level)] = share
		}
		doc.TeamComposition = append(doc.TeamComposition, TeamMemberDoc{
			Role:               member.Role,
			HourlyRate:         &rate,
			SharesByComplexity: shares,
		})
	}

	doc.RecomputeBaselines()
	return doc
}
