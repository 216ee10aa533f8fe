package analysis

import (
	"encoding/json"
	"testing"
)

func TestProfileDistribution(t *testing.T) {
	if p := profileDistribution([]float64{1, 2}); p != nil {
		t.Errorf("expected nil profile for fewer than 3 values, got %+v", p)
	}

	p := profileDistribution([]float64{1, 2, 3, 4, 5})
	if p == nil {
		t.Fatal("expected a profile for 5 values")
	}
	if p.IQR != p.Q3-p.Q1 {
		t.Errorf("IQR = %v, want Q3-Q1 = %v", p.IQR, p.Q3-p.Q1)
	}
	if p.Q1 > p.Q3 {
		t.Errorf("Q1 %v greater than Q3 %v", p.Q1, p.Q3)
	}
}

// Constant data has undefined higher moments; they must come back as zero
// so the profile still serializes to valid JSON.
func TestProfileDistributionConstantValues(t *testing.T) {
	p := profileDistribution([]float64{4, 4, 4, 4})
	if p == nil {
		t.Fatal("expected a profile for constant values")
	}
	if p.Skewness != 0 || p.Kurtosis != 0 {
		t.Errorf("constant data: skewness/kurtosis = %v/%v, want 0/0", p.Skewness, p.Kurtosis)
	}
	if _, err := json.Marshal(p); err != nil {
		t.Errorf("profile failed to marshal: %v", err)
	}
}
