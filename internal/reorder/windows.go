package reorder

import "time"

const dateLayout = "2006-01-02"

// SeasonalWindow returns the date range used for velocity estimation: the
// same calendar weeks one year ago, as a 6-week window (3 weeks either side
// of the anchor). This captures last season's demand without multi-year
// regression.
//
// weeksOffset shifts the anchor forward from "one year before now", e.g. +2
// to plan for a window two weeks ahead.
func SeasonalWindow(now time.Time, weeksOffset int) (string, string) {
	lastYear := now.AddDate(-1, 0, 0)
	center := lastYear.AddDate(0, 0, weeksOffset*7)

	start := center.AddDate(0, 0, -3*7)
	end := center.AddDate(0, 0, 3*7)

	return start.Format(dateLayout), end.Format(dateLayout)
}

// RecencyWindow returns the trailing 90 days ending now. Fallback signal for
// new products and SKUs with no prior-year history.
func RecencyWindow(now time.Time) (string, string) {
	start := now.AddDate(0, 0, -90)

	return start.Format(dateLayout), now.Format(dateLayout)
}
