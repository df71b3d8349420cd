// Package timeline inspects file timestamps for signs that a document was
// produced in one short sitting.
package timeline

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
)

const (
	Unknown = "Unknown"

	DefaultSuspiciousGap = 300 * time.Second
)

type Analysis struct {
	Created               string  `json:"created"`
	Modified              string  `json:"modified"`
	TimeDifferenceSeconds float64 `json:"time_difference_seconds"`
	Suspicious            bool    `json:"suspicious_timeline"`
	Interpretation        string  `json:"interpretation"`
}

// Analyze reads creation and modification times for path. Failures never
// surface as errors; they yield an Unknown, non-suspicious analysis.
func Analyze(path string, gap time.Duration) Analysis {
	info, err := os.Stat(path)
	if err != nil {
		return unknown()
	}
	created, err := creationTime(path)
	if err != nil {
		return unknown()
	}
	return Evaluate(created, info.ModTime(), gap)
}

// Evaluate flags a creation-to-modification interval shorter than gap.
func Evaluate(created, modified time.Time, gap time.Duration) Analysis {
	if gap <= 0 {
		gap = DefaultSuspiciousGap
	}
	diff := modified.Sub(created)
	suspicious := diff < gap

	interpretation := "Normal timeline"
	if suspicious {
		interpretation = "Suspicious: very short creation-modification interval"
	}
	if diff.Abs() >= time.Second {
		interpretation = fmt.Sprintf("%s (modified %s)", interpretation,
			humanize.RelTime(created, modified, "after creation", "before creation"))
	}

	return Analysis{
		Created:               created.Format(time.RFC3339),
		Modified:              modified.Format(time.RFC3339),
		TimeDifferenceSeconds: diff.Seconds(),
		Suspicious:            suspicious,
		Interpretation:        interpretation,
	}
}

func unknown() Analysis {
	return Analysis{
		Created:        Unknown,
		Modified:       Unknown,
		Interpretation: "Could not analyze file timestamps",
	}
}
