package aoi

// ReliabilityEstimator counts successful transmissions for one flow.
//
// Failures are observed but never penalize the count: the estimator is an
// optimistic success counter, not a failure-weighted average. Callers must not
// assume symmetric treatment of successes and failures.
type ReliabilityEstimator struct {
	successes uint64
	attempts  uint64
}

// NewReliabilityEstimator creates an estimator whose success and attempt
// counters both start at seed.
func NewReliabilityEstimator(seed uint64) *ReliabilityEstimator {
	return &ReliabilityEstimator{successes: seed, attempts: seed}
}

// UpdateReliability records one transmission outcome.
func (r *ReliabilityEstimator) UpdateReliability(success bool) {
	r.attempts++
	if success {
		r.successes++
	}
}

// Reliability returns the success count fed to CalculateMetric.
func (r *ReliabilityEstimator) Reliability() uint64 {
	return r.successes
}

// Attempts returns the number of outcomes observed, seed included.
func (r *ReliabilityEstimator) Attempts() uint64 {
	return r.attempts
}

// SuccessRatio is a diagnostic; it is not used by the metric.
func (r *ReliabilityEstimator) SuccessRatio() float64 {
	if r.attempts == 0 {
		return 0
	}
	return float64(r.successes) / float64(r.attempts)
}
