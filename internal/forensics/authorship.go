package forensics

import "strings"

const (
	minStyleWords           = 20
	lengthVarianceLimit     = 5.0
	complexityVarianceLimit = 0.10
	maxConfidence           = 0.95
)

type Authorship struct {
	AnomalyDetected    bool    `json:"anomaly_detected"`
	Confidence         float64 `json:"confidence"`
	LengthVariance     float64 `json:"length_variance"`
	ComplexityVariance float64 `json:"complexity_variance"`
}

// DetectAuthorship compares writing style across segments. Segments of
// twenty words or fewer are ignored; with fewer than two left nothing is
// reported.
func DetectAuthorship(tok Tokenizer, segments []string) Authorship {
	if tok == nil || !tok.Available() || len(segments) < 2 {
		return Authorship{}
	}

	lengths := make([]float64, 0, len(segments))
	complexity := make([]float64, 0, len(segments))
	for _, seg := range segments {
		if len(strings.Fields(seg)) <= minStyleWords {
			continue
		}
		st := WritingStyle(tok, seg)
		lengths = append(lengths, st.AvgSentenceLength)
		complexity = append(complexity, st.ComplexWordsRatio)
	}
	if len(lengths) < 2 {
		return Authorship{}
	}

	lengthVar := variance(lengths)
	complexityVar := variance(complexity)
	return Authorship{
		AnomalyDetected:    lengthVar > lengthVarianceLimit || complexityVar > complexityVarianceLimit,
		Confidence:         round(min(maxConfidence, (lengthVar+complexityVar*10)/10), 3),
		LengthVariance:     round(lengthVar, 3),
		ComplexityVariance: round(complexityVar, 3),
	}
}

// variance is the population variance.
func variance(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var mean float64
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))

	var v float64
	for _, x := range xs {
		d := x - mean
		v += d * d
	}
	return v / float64(len(xs))
}
