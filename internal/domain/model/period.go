package model

// Period is one of the three regulatory assessment periods.
type Period int

// Assessment periods, in the order used by duty tables and tensors.
const (
	Day Period = iota
	Evening
	Night
)

// NumPeriods is the number of assessment periods.
const NumPeriods = 3

// Periods lists the assessment periods in order.
var Periods = [NumPeriods]Period{Day, Evening, Night}

func (p Period) String() string {
	switch p {
	case Day:
		return "Day"
	case Evening:
		return "Evening"
	case Night:
		return "Night"
	default:
		return "Unknown"
	}
}

// PeriodNames maps each period to the name of the computation holding its
// result.
type PeriodNames [NumPeriods]string

// DefaultPeriodNames returns the conventional Day/Evening/Night names.
func DefaultPeriodNames() PeriodNames {
	return PeriodNames{Day.String(), Evening.String(), Night.String()}
}
