package reconcile

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/attendify/attendify-backend-go/internal/domain/reconcile"
)

var clockLayouts = []string{
	"15:04",
	"15:04:05",
	"3:04 PM",
	"3:04:05 PM",
	"3:04PM",
	"3:04:05PM",
}

// clockPunch is a punch whose wall-clock time has been parsed (ok=false if not).
type clockPunch struct {
	Raw string
	At  time.Time
	OK  bool
}

func parseClock(raw string) (time.Time, bool) {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// punchIndex maps employee code -> canonical date -> punches ascending by time.
type punchIndex map[string]map[string][]clockPunch

func (idx punchIndex) forDay(code, date string) []clockPunch {
	return idx[code][date]
}

// aggregatePunches groups biometric punches by employee and canonical date.
// Punches whose date cannot be normalized are dropped without an error.
func aggregatePunches(records []reconcile.BiometricEmployeeRecord, log *errorLog) punchIndex {
	idx := punchIndex{}

	for _, rec := range records {
		if rec.EmployeeCode == "" {
			log.add("Missing employee code in biometric data entry")
			continue
		}
		if rec.EmployeeName == "" {
			log.add(fmt.Sprintf("Missing employee name for empCode %s in biometric data", rec.EmployeeCode))
		}

		byDate, ok := idx[rec.EmployeeCode]
		if !ok {
			byDate = map[string][]clockPunch{}
			idx[rec.EmployeeCode] = byDate
		}

		for _, p := range rec.Punches {
			date, ok := NormalizeDate(p.Date)
			if !ok {
				continue
			}
			at, parsed := parseClock(p.Time)
			byDate[date] = append(byDate[date], clockPunch{Raw: p.Time, At: at, OK: parsed})
		}
	}

	for _, byDate := range idx {
		for date := range byDate {
			sortPunches(byDate[date])
		}
	}
	return idx
}

// sortPunches orders punches by time; unparseable times sort last, keeping input order.
func sortPunches(punches []clockPunch) {
	sort.SliceStable(punches, func(i, j int) bool {
		a, b := punches[i], punches[j]
		if a.OK != b.OK {
			return a.OK
		}
		if !a.OK {
			return false
		}
		return a.At.Before(b.At)
	})
}

// punchDuration returns hours between the first and last punch, or false if
// either end is unparseable or the span is not positive.
func punchDuration(punches []clockPunch) (float64, bool) {
	if len(punches) < 2 {
		return 0, false
	}
	first, last := punches[0], punches[len(punches)-1]
	if !first.OK || !last.OK || !last.At.After(first.At) {
		return 0, false
	}
	return last.At.Sub(first.At).Hours(), true
}
