package pipeline

// percentOf returns numerator/denominator × 100, or 0 when the denominator
// is zero. Every ratio in the scoring formulas goes through here so a zero
// denominator can never take down a stage.
func percentOf(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator * 100
}

// safeDiv is integer division returning 0 on a zero denominator.
func safeDiv(numerator, denominator int64) int64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}
