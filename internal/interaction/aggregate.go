package interaction

// Dimension selects the group key for AggregateBy.
type Dimension string

const (
	ByCompany  Dimension = "company"
	ByFeedback Dimension = "feedback"
	ByDay      Dimension = "day"
)

// AggregateBy groups records and counts them per group key. ByDay keys
// use the calendar date (2006-01-02).
func AggregateBy(records []Record, dim Dimension) map[string]int {
	counts := make(map[string]int)
	for _, rec := range records {
		var key string
		switch dim {
		case ByCompany:
			key = rec.Company
		case ByFeedback:
			key = rec.Feedback
		case ByDay:
			key = rec.Timestamp.Format("2006-01-02")
		default:
			continue
		}
		counts[key]++
	}
	return counts
}
