package roi

// ComplexityLevel is the 5-level classification produced by the scorer.
type ComplexityLevel string

const (
	VerySimple  ComplexityLevel = "VERY_SIMPLE"
	Simple      ComplexityLevel = "SIMPLE"
	Medium      ComplexityLevel = "MEDIUM"
	Complex     ComplexityLevel = "COMPLEX"
	VeryComplex ComplexityLevel = "VERY_COMPLEX"
)

// Levels lists every classification from simplest to most complex.
var Levels = []ComplexityLevel{VerySimple, Simple, Medium, Complex, VeryComplex}

// DataType describes the kind of data the process handles.
type DataType string

const (
	DataStructured DataType = "structured"
	DataText       DataType = "text"
	DataOCR        DataType = "ocr"
)

// Environment is a target system the automation operates against.
type Environment string

const (
	EnvWeb    Environment = "web"
	EnvSAP    Environment = "sap"
	EnvCitrix Environment = "citrix"
)

// CognitiveLevel describes how much reasoning the automation needs.
type CognitiveLevel string

const (
	CognitiveRule           CognitiveLevel = "rule"
	CognitiveInterpretation CognitiveLevel = "interpretation"
	CognitiveCreation       CognitiveLevel = "creation"
)

// InputVariability describes how often input layouts change.
type InputVariability string

const (
	VariabilityNever        InputVariability = "never"
	VariabilityOccasionally InputVariability = "occasionally"
	VariabilityAlways       InputVariability = "always"
)

// ErrorCostUnit qualifies StrategicInput.ErrorCost.
type ErrorCostUnit string

const (
	ErrorCostPerFailure ErrorCostUnit = "per_failure"
	ErrorCostMonthly    ErrorCostUnit = "monthly"
	ErrorCostAnnual     ErrorCostUnit = "annual"
)

// ComplexityInput holds the technical attributes of a process.
type ComplexityInput struct {
	NumApplications int           `json:"numApplications"`
	DataType        DataType      `json:"dataType"`
	Environment     []Environment `json:"environment"`
	NumSteps        int           `json:"numSteps"`
	UseRPALicense   string        `json:"useRpaLicense"`
	// RPALicenseCost overrides the configured annual license cost when set,
	// including an explicit zero.
	RPALicenseCost *float64 `json:"rpaLicenseCost,omitempty"`
}

// OperationalInput holds the manual process volumetrics.
type OperationalInput struct {
	Volume    float64 `json:"volume"`
	AHT       float64 `json:"aht"`
	FTECost   float64 `json:"fteCost"`
	ErrorRate float64 `json:"errorRate"`
}

// StrategicInput holds the strategic flags that adjust AS-IS and TO-BE costs.
type StrategicInput struct {
	CognitiveLevel   CognitiveLevel   `json:"cognitiveLevel"`
	InputVariability InputVariability `json:"inputVariability"`
	ErrorCost        float64          `json:"errorCost"`
	ErrorCostUnit    ErrorCostUnit    `json:"errorCostUnit"`
	Needs24h         bool             `json:"needs24h"`
	TurnoverRate     float64          `json:"turnoverRate"`
}

// TeamMember is one role of the configured development squad. Shares are
// fractions of the 168-hour monthly base allocated per complexity level.
type TeamMember struct {
	Role               string
	HourlyRate         float64
	SharesByComplexity map[ComplexityLevel]float64
}

// InfraCosts holds the configured annual infrastructure rates.
type InfraCosts struct {
	RPALicenseAnnual     float64
	VirtualMachineAnnual float64
	DatabaseAnnual       float64
}

// StrategicConfig holds globally configured strategic rates.
type StrategicConfig struct {
	GenAICostPerTransaction        float64
	IDPLicenseAnnual               float64
	TurnoverReplacementCostPercent float64
	ROIAccuracyPercentage          float64
}

// MaintenanceConfig holds the maintenance squad rates. A capacity value is the
// number of robots one maintenance FTE can support at that complexity band.
type MaintenanceConfig struct {
	FTEMonthlyCost float64
	CapacityLow    float64
	CapacityMedium float64
	CapacityHigh   float64
}

// Config is the normalized global configuration the engine computes against.
// It is read-only to this package; loading, caching and normalization happen
// in the settings package.
type Config struct {
	TeamComposition []TeamMember
	InfraCosts      InfraCosts
	Strategic       StrategicConfig
	Maintenance     MaintenanceConfig
}

// DefaultConfig returns the fallback configuration used when no settings
// document has been saved yet (first-run state).
func DefaultConfig() Config {
	return Config{
		TeamComposition: []TeamMember{
			{
				Role:       "Developer",
				HourlyRate: 120,
				SharesByComplexity: map[ComplexityLevel]float64{
					VerySimple:  0.1,
					Simple:      0.2,
					Medium:      0.5,
					Complex:     1.0,
					VeryComplex: 2.0,
				},
			},
		},
		InfraCosts: InfraCosts{
			RPALicenseAnnual:     15000,
			VirtualMachineAnnual: 5000,
			DatabaseAnnual:       0,
		},
		Strategic: StrategicConfig{
			GenAICostPerTransaction:        0.05,
			IDPLicenseAnnual:               5000,
			TurnoverReplacementCostPercent: 20,
			ROIAccuracyPercentage:          100,
		},
		Maintenance: MaintenanceConfig{
			FTEMonthlyCost: 8000,
			CapacityLow:    90,
			CapacityMedium: 70,
			CapacityHigh:   50,
		},
	}
}

// ComplexityResult is the outcome of scoring a ComplexityInput.
type ComplexityResult struct {
	TotalPoints    int             `json:"totalPoints"`
	Classification ComplexityLevel `json:"classification"`
}

// DevelopmentResult is the one-time build estimate for the automation.
type DevelopmentResult struct {
	Cost  float64 `json:"cost"`
	Hours float64 `json:"hours"`
}

// StrategicAdjustments quantifies risk, turnover and SLA effects on the AS-IS cost.
type StrategicAdjustments struct {
	RiskCost      float64 `json:"riskCost"`
	TurnoverCost  float64 `json:"turnoverCost"`
	SLAMultiplier float64 `json:"slaMultiplier"`
	AdjustedAsIs  float64 `json:"adjustedAsIs"`
}

// ToBeBreakdown itemizes the annual cost of operating the automation.
type ToBeBreakdown struct {
	LicenseCost     float64 `json:"licenseCost"`
	InfraCost       float64 `json:"infraCost"`
	MaintenanceCost float64 `json:"maintenanceCost"`
	GenAICost       float64 `json:"genAiCost"`
	IDPCost         float64 `json:"idpCost"`
	Total           float64 `json:"totalToBeCost"`
}

// MaintenanceBreakdown exposes how the maintenance cost was derived.
type MaintenanceBreakdown struct {
	MonthlyCost     float64 `json:"monthlyCost"`
	AnnualCost      float64 `json:"annualCost"`
	FTECost         float64 `json:"fteCost"`
	CapacityDivisor float64 `json:"capacityDivisor"`
}

// AsIsCosts itemizes the annualized cost of the current manual process.
type AsIsCosts struct {
	Annual      float64 `json:"annual"`
	Operational float64 `json:"operational"`
	Risk        float64 `json:"risk"`
	Turnover    float64 `json:"turnover"`
	Monthly     float64 `json:"monthly"`
}

// Costs groups the AS-IS, development and TO-BE figures of one calculation.
type Costs struct {
	AsIs             AsIsCosts     `json:"asIs"`
	Development      float64       `json:"development"`
	DevelopmentHours float64       `json:"developmentHours"`
	ToBe             ToBeBreakdown `json:"toBe"`
}

// Summary carries the derived savings and return figures. PaybackMonths is nil
// when payback never occurs (monthly savings at or below zero).
type Summary struct {
	ROIYear1           float64  `json:"roiYear1"`
	ROIYear3           float64  `json:"roiYear3"`
	AnnualSavings      float64  `json:"annualSavings"`
	GrossAnnualSavings float64  `json:"grossAnnualSavings"`
	MonthlySavings     float64  `json:"monthlySavings"`
	PaybackMonths      *float64 `json:"paybackMonths"`
}

// Result is the full outcome of one ROI calculation. It is assembled once and
// never mutated afterwards.
type Result struct {
	Complexity  ComplexityResult     `json:"complexity"`
	Strategic   StrategicAdjustments `json:"strategic"`
	Maintenance MaintenanceBreakdown `json:"maintenance"`
	Costs       Costs                `json:"costs"`
	ROI         Summary              `json:"roi"`
}
