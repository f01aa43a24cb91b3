// Package skill blends manually-entered player skill ratings with ratings
// derived from match statistics. Derived numbers take over gradually as the
// sample count grows, so a new player's self-assessment is not immediately
// overruled by two noisy games.
package skill

// Blend combines a manual and a derived rating:
//
//	effective = manual*(1-confidence) + derived*confidence
//	confidence = min(samples/threshold, 1)
//
// threshold <= 0 means derived data is never trusted and the manual rating is
// returned as-is.
func Blend(manual, derived float64, samples, threshold int) float64 {
	confidence := Confidence(samples, threshold)
	return manual*(1-confidence) + derived*confidence
}

// Confidence maps a sample count to a 0-1 trust factor.
func Confidence(samples, threshold int) float64 {
	if threshold <= 0 || samples <= 0 {
		return 0
	}
	if samples >= threshold {
		return 1
	}
	return float64(samples) / float64(threshold)
}
