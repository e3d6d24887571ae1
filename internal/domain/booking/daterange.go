package booking

import (
	"fmt"
	"time"

	"github.com/TQS-Project-OLS/backend-sub001/pkg/domain"
)

// DateRange is an inclusive calendar interval at day granularity. A range
// where start equals end is a valid one-day rental.
type DateRange struct {
	Start time.Time `json:"start_date"`
	End   time.Time `json:"end_date"`
}

// NewDateRange creates a DateRange, truncating both bounds to midnight UTC.
func NewDateRange(start, end time.Time) (DateRange, error) {
	r := DateRange{Start: truncateToDay(start), End: truncateToDay(end)}
	if r.End.Before(r.Start) {
		return DateRange{}, domain.NewValidationError(
			fmt.Sprintf("end date %s is before start date %s",
				r.End.Format("2006-01-02"), r.Start.Format("2006-01-02")))
	}
	return r, nil
}

// Overlaps reports whether the two inclusive ranges share at least one day.
// Adjacent ranges (this.End == other.Start) overlap: the boundary day belongs
// to both rentals.
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.Start.After(other.End) && !r.End.Before(other.Start)
}

// Days returns the inclusive length of the range in days.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// String formats the range as "2006-01-02..2006-01-02".
func (r DateRange) String() string {
	return r.Start.Format("2006-01-02") + ".." + r.End.Format("2006-01-02")
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
