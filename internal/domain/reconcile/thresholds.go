package reconcile

import (
	"fmt"
	"math"

	"github.com/attendify/attendify-backend-go/internal/pkg/validator"
)

const maxThresholdHours = 24

// Thresholds are the hour boundaries used by the classifier.
// Callers are expected to keep Working > Partial > Absent.
type Thresholds struct {
	Working float64 `json:"working_threshold"`
	Partial float64 `json:"partial_threshold"`
	Absent  float64 `json:"absent_threshold"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{Working: 8, Partial: 4, Absent: 0}
}

func (t Thresholds) Validate() error {
	var errs validator.ValidationErrors

	check := func(field string, v float64) bool {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: field + " must be a finite number",
			})
			return false
		}
		if v < 0 || v > maxThresholdHours {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: fmt.Sprintf("%s must be between 0 and %d hours", field, maxThresholdHours),
			})
			return false
		}
		return true
	}

	okWorking := check("working_threshold", t.Working)
	okPartial := check("partial_threshold", t.Partial)
	okAbsent := check("absent_threshold", t.Absent)

	if okWorking && okPartial && t.Working <= t.Partial {
		errs = append(errs, validator.ValidationError{
			Field:   "working_threshold",
			Message: "working_threshold must be greater than partial_threshold",
		})
	}
	if okPartial && okAbsent && t.Partial <= t.Absent {
		errs = append(errs, validator.ValidationError{
			Field:   "partial_threshold",
			Message: "partial_threshold must be greater than absent_threshold",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ThresholdField names the threshold a user just moved.
type ThresholdField string

const (
	FieldWorking ThresholdField = "working"
	FieldPartial ThresholdField = "partial"
	FieldAbsent  ThresholdField = "absent"
)

func (f ThresholdField) Valid() bool {
	return f == FieldWorking || f == FieldPartial || f == FieldAbsent
}

// Repair restores Working > Partial > Absent after the threshold named by
// changed was edited, pushing its neighbours one hour apart.
func (t Thresholds) Repair(changed ThresholdField) Thresholds {
	switch changed {
	case FieldWorking:
		if t.Working <= t.Partial {
			t.Partial = t.Working - 1
			if t.Partial <= t.Absent {
				t.Absent = t.Partial - 1
			}
		}
	case FieldPartial:
		if t.Partial >= t.Working {
			t.Working = t.Partial + 1
		} else if t.Partial <= t.Absent {
			t.Absent = t.Partial - 1
		}
	case FieldAbsent:
		if t.Absent >= t.Partial {
			t.Partial = t.Absent + 1
			if t.Partial >= t.Working {
				t.Working = t.Absent + 2
			}
		}
	}
	return t
}
