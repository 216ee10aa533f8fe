package analysis

import (
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// DistributionProfile enriches numeric statistics with shape information
// used by the narrative layer to comment on response spread. It never
// affects the core field set.
type DistributionProfile struct {
	Q1       float64 `json:"q1"`
	Q3       float64 `json:"q3"`
	IQR      float64 `json:"iqr"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"`
}

// profileDistribution computes quartiles and higher moments. Returns nil
// when there are too few values for the moments to be meaningful.
func profileDistribution(values []float64) *DistributionProfile {
	if len(values) < 3 {
		return nil
	}

	q1, err := stats.Percentile(values, 25)
	if err != nil {
		return nil
	}
	q3, err := stats.Percentile(values, 75)
	if err != nil {
		return nil
	}

	// Moments are undefined for constant data; report zero rather than NaN,
	// which would poison JSON serialization of the whole analysis.
	var skewness, kurtosis float64
	if stat.StdDev(values, nil) > 0 {
		skewness = stat.Skew(values, nil)
		kurtosis = stat.ExKurtosis(values, nil)
	}

	return &DistributionProfile{
		Q1:       q1,
		Q3:       q3,
		IQR:      q3 - q1,
		Skewness: skewness,
		Kurtosis: kurtosis,
	}
}
