package roi

import "testing"

func TestScore_SimplestProcess(t *testing.T) {
	result := Score(ComplexityInput{
		NumApplications: 1,
		DataType:        DataStructured,
		Environment:     []Environment{EnvWeb},
		NumSteps:        5,
		UseRPALicense:   "yes",
	})

	if result.TotalPoints != 4 {
		t.Fatalf("totalPoints = %d, want 4", result.TotalPoints)
	}
	if result.Classification != VerySimple {
		t.Fatalf("classification = %s, want %s", result.Classification, VerySimple)
	}
}

func TestScore_HardestProcess(t *testing.T) {
	result := Score(ComplexityInput{
		NumApplications: 6,
		DataType:        DataOCR,
		Environment:     []Environment{EnvCitrix},
		NumSteps:        60,
		UseRPALicense:   "no",
	})

	// 3 apps + 5 ocr + 4 citrix + 5 steps + 3 custom runtime.
	if result.TotalPoints != 20 {
		t.Fatalf("totalPoints = %d, want 20", result.TotalPoints)
	}
	if result.Classification != VeryComplex {
		t.Fatalf("classification = %s, want %s", result.Classification, VeryComplex)
	}
}

func TestScore_MultiEnvironmentIsAdditive(t *testing.T) {
	base := ComplexityInput{
		NumApplications: 1,
		DataType:        DataStructured,
		NumSteps:        5,
		UseRPALicense:   "yes",
	}

	web := base
	web.Environment = []Environment{EnvWeb}
	sap := base
	sap.Environment = []Environment{EnvSAP}
	both := base
	both.Environment = []Environment{EnvWeb, EnvSAP}

	webPoints := Score(web).TotalPoints
	sapPoints := Score(sap).TotalPoints
	bothPoints := Score(both).TotalPoints

	if bothPoints != webPoints+2 {
		t.Fatalf("web+sap points = %d, want %d", bothPoints, webPoints+2)
	}
	if bothPoints <= webPoints || bothPoints <= sapPoints {
		t.Fatalf("multi-environment score %d must exceed web (%d) and sap (%d)", bothPoints, webPoints, sapPoints)
	}
}

func TestScore_StepBucketsAreMonotonic(t *testing.T) {
	input := ComplexityInput{
		NumApplications: 1,
		DataType:        DataStructured,
		Environment:     []Environment{EnvWeb},
		UseRPALicense:   "yes",
	}

	previous := -1
	for _, steps := range []int{0, 19, 20, 50, 51, 500} {
		input.NumSteps = steps
		points := Score(input).TotalPoints
		if points < previous {
			t.Fatalf("points decreased from %d to %d at numSteps=%d", previous, points, steps)
		}
		previous = points
	}
}

func TestScore_ZeroValueInputUsesSafeDefaults(t *testing.T) {
	result := Score(ComplexityInput{})

	// 1 apps + 1 unknown data type + 1 defaulted web + 1 steps.
	if result.TotalPoints != 4 {
		t.Fatalf("totalPoints = %d, want 4", result.TotalPoints)
	}
	if result.Classification != VerySimple {
		t.Fatalf("classification = %s, want %s", result.Classification, VerySimple)
	}
}

func TestClassify_ThresholdBands(t *testing.T) {
	cases := []struct {
		points int
		want   ComplexityLevel
	}{
		{4, VerySimple},
		{5, VerySimple},
		{6, Simple},
		{7, Simple},
		{8, Medium},
		{10, Medium},
		{11, Complex},
		{13, Complex},
		{14, VeryComplex},
		{20, VeryComplex},
	}

	for _, tc := range cases {
		if got := classify(tc.points); got != tc.want {
			t.Fatalf("classify(%d) = %s, want %s", tc.points, got, tc.want)
		}
	}
}
