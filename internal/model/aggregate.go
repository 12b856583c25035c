/*
PURPOSE:
  Status histogram over a result set.
*/

package model

// Tally counts results per status. Statuses outside the taxonomy are not
// counted but stay in the result set.
func Tally(results ResultSet) StatusHistogram {
	var h StatusHistogram
	for _, e := range results {
		switch e.Result.Status() {
		case StatusOK:
			h.OK++
		case StatusDegraded:
			h.Degraded++
		case StatusSkipped:
			h.Skipped++
		case StatusFailed:
			h.Failed++
		case StatusMissing:
			h.Missing++
		}
	}
	return h
}
