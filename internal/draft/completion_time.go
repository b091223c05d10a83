package draft

// CompletionTime is the UI bucket a chef picks for how long an item takes.
type CompletionTime struct {
	ID      string
	Minutes int
	Label   string
}

// DefaultCompletionTimeID is used when a stored estimate matches no bucket.
const DefaultCompletionTimeID = "1"

// CompletionTimes lists the buckets in display order.
var CompletionTimes = []CompletionTime{
	{ID: "1", Minutes: 120, Label: "2 hours"},
	{ID: "2", Minutes: 90, Label: "1.5 hours"},
	{ID: "3", Minutes: 60, Label: "1 hour"},
	{ID: "4", Minutes: 45, Label: "45 minutes"},
	{ID: "5", Minutes: 30, Label: "30 minutes"},
	{ID: "6", Minutes: 15, Label: "15 minutes"},
}

// MinutesForCompletionTime maps a bucket id to its estimated_time in minutes.
func MinutesForCompletionTime(id string) (int, bool) {
	for _, ct := range CompletionTimes {
		if ct.ID == id {
			return ct.Minutes, true
		}
	}
	return 0, false
}

// CompletionTimeForMinutes reverse-maps a stored estimated_time by exact
// match. Anything else yields DefaultCompletionTimeID; there is no rounding to
// the nearest bucket.
func CompletionTimeForMinutes(minutes int) string {
	for _, ct := range CompletionTimes {
		if ct.Minutes == minutes {
			return ct.ID
		}
	}
	return DefaultCompletionTimeID
}
