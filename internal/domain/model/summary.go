package model

import (
	"sort"
	"time"
)

// Summary aggregates a set of result records
type Summary struct {
	Count     int           `json:"count" yaml:"count"`
	Succeeded int           `json:"succeeded" yaml:"succeeded"`
	TimedOut  int           `json:"timed_out" yaml:"timed_out"`
	Failed    int           `json:"failed" yaml:"failed"`
	Min       time.Duration `json:"min" yaml:"min"`
	Max       time.Duration `json:"max" yaml:"max"`
	Avg       time.Duration `json:"avg" yaml:"avg"`
	P50       time.Duration `json:"p50" yaml:"p50"`
	P95       time.Duration `json:"p95" yaml:"p95"`
	P99       time.Duration `json:"p99" yaml:"p99"`
}

// Summarize computes a Summary over records
func Summarize(records []ResultRecord) Summary {
	s := Summary{Count: len(records)}
	if len(records) == 0 {
		return s
	}

	durations := make([]time.Duration, 0, len(records))
	var total time.Duration
	for _, r := range records {
		switch {
		case r.TimedOut:
			s.TimedOut++
		case !r.Succeeded():
			s.Failed++
		default:
			s.Succeeded++
		}
		durations = append(durations, r.Elapsed)
		total += r.Elapsed
	}

	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
	s.Min = durations[0]
	s.Max = durations[len(durations)-1]
	s.Avg = total / time.Duration(len(durations))
	s.P50 = percentile(durations, 50)
	s.P95 = percentile(durations, 95)
	s.P99 = percentile(durations, 99)
	return s
}

// percentile interpolates linearly between the two closest ranks of sorted
func percentile(sorted []time.Duration, p float64) time.Duration {
	index := (p / 100.0) * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := index - float64(lower)
	return time.Duration(float64(sorted[lower])*(1-weight) + float64(sorted[upper])*weight)
}
