package reorder

import "sort"

// DetectAnomalies flags weeks that are implausibly large relative to the
// SKU's own average, so a single promotional spike does not inflate the
// reorder signal.
//
// The mean is taken over non-zero weeks only; sparse sellers would otherwise
// get a near-zero average that flags every real week. A week is anomalous
// when strictly greater than mean × multiplier.
func DetectAnomalies(weeklySales map[string]int, multiplier float64) (bool, []string) {
	if len(weeklySales) == 0 {
		return false, nil
	}

	sum, n := 0, 0
	for _, qty := range weeklySales {
		if qty > 0 {
			sum += qty
			n++
		}
	}
	if n == 0 {
		return false, nil
	}

	threshold := float64(sum) / float64(n) * multiplier

	var anomalyWeeks []string
	for week, qty := range weeklySales {
		if float64(qty) > threshold {
			anomalyWeeks = append(anomalyWeeks, week)
		}
	}
	sort.Strings(anomalyWeeks)

	return len(anomalyWeeks) > 0, anomalyWeeks
}
