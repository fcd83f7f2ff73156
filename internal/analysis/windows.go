package analysis

import (
	"time"

	"github.com/RoyceCho1/DCDR/internal/model"
)

// Seasonal weekday dispatch windows of the DR program. Shed windows are the
// hours the facility is expected to reduce load; up windows the hours it can
// absorb surplus. When an hour appears in both, shed wins.
var shedHours = map[model.Season]map[int]bool{
	model.Summer: set(11, 13, 14, 15, 16),
	model.Winter: set(8, 9, 10, 11, 15),
	model.Spring: set(10),
	model.Fall:   {},
}

var upHours = map[model.Season]map[int]bool{
	model.Summer: {},
	model.Winter: set(12, 13),
	model.Spring: set(12, 13, 14),
	model.Fall:   set(11, 12, 13),
}

func set(hours ...int) map[int]bool {
	m := make(map[int]bool, len(hours))
	for _, h := range hours {
		m[h] = true
	}
	return m
}

func isWeekday(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// InShedWindow reports whether t falls inside its season's weekday shed
// window.
func InShedWindow(t time.Time) bool {
	return isWeekday(t) && shedHours[model.SeasonOf(t)][t.Hour()]
}

// InUpWindow reports whether t falls inside its season's weekday load-up
// window. Shed takes priority on overlap.
func InUpWindow(t time.Time) bool {
	if InShedWindow(t) {
		return false
	}
	return isWeekday(t) && upHours[model.SeasonOf(t)][t.Hour()]
}
