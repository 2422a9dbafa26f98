package analysis

import (
	"math"
	"time"

	"github.com/couchcryptid/agri-data-etl/internal/domain"
)

// defaultQuality is assumed when no validation report is available for a
// dataset (state-level rainfall arrives pre-validated by the aggregator).
const defaultQuality = 0.9

// qualityScore blends the post-normalization validation score with the
// normalization keep-ratio, so heavy drops during normalization lower
// confidence even when every surviving row is clean.
func qualityScore(validation domain.ValidationReport, report domain.NormalizeReport) float64 {
	score := validation.Score()
	if validation.RecordCount == 0 {
		score = 0
	}
	if report.Input == 0 {
		return score
	}
	keepRatio := float64(report.Kept) / float64(report.Input)
	return (score + keepRatio) / 2
}

// confidence combines data quality, sample size, and recency into a 0..1
// score, weighted 0.5 / 0.3 / 0.2. The sample and recency factors are
// stepped rather than continuous: answer confidence should move in
// explainable increments, not wobble with every extra row.
func confidence(quality float64, sampleSize, yearEnd int) float64 {
	if sampleSize == 0 {
		return 0
	}

	var sample float64
	switch {
	case sampleSize >= 100:
		sample = 1.0
	case sampleSize >= 50:
		sample = 0.95
	case sampleSize >= 20:
		sample = 0.85
	case sampleSize >= 10:
		sample = 0.75
	default:
		sample = 0.6
	}

	recency := 1.0
	if yearEnd > 0 {
		switch age := time.Now().Year() - yearEnd; {
		case age >= 10:
			recency = 0.7
		case age >= 5:
			recency = 0.85
		case age >= 2:
			recency = 0.95
		}
	}

	score := 0.5*quality + 0.3*sample + 0.2*recency
	return math.Round(score*100) / 100
}
