package appointment

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ===============================
// Recurrence
// ===============================

type RecurrenceType string

const (
	RecurrenceNone    RecurrenceType = "none"
	RecurrenceDaily   RecurrenceType = "daily"
	RecurrenceWeekly  RecurrenceType = "weekly"
	RecurrenceMonthly RecurrenceType = "monthly"
)

// Series longer than this are rejected outright; every occurrence becomes a
// persisted row.
const MaxOccurrences = 366

var (
	ErrUnboundedRecurrence = errors.New("unbounded_recurrence")
	ErrInvalidRecurrence   = errors.New("invalid_recurrence")
	ErrRecurrenceTooLong   = errors.New("recurrence_too_long")
)

type RecurrenceRule struct {
	Type     RecurrenceType `json:"type"`
	Interval int            `json:"interval"`
	Count    int            `json:"count"`
	EndDate  *time.Time     `json:"end_date"`
}

type Occurrence struct {
	Date  time.Time `json:"date"`
	Index int       `json:"index"`
}

func (r RecurrenceRule) normalized() RecurrenceRule {
	if r.Type == "" {
		r.Type = RecurrenceNone
	}
	if r.Interval == 0 {
		r.Interval = 1
	}
	return r
}

func (r RecurrenceRule) Validate() error {
	r = r.normalized()

	switch r.Type {
	case RecurrenceNone:
		return nil
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
	default:
		return ErrInvalidRecurrence
	}

	if r.Interval < 1 {
		return ErrInvalidRecurrence
	}
	if r.Count < 0 {
		return ErrInvalidRecurrence
	}
	if r.Count == 0 && r.EndDate == nil {
		return ErrUnboundedRecurrence
	}
	if r.Count > MaxOccurrences {
		return ErrRecurrenceTooLong
	}
	return nil
}

// GenerateOccurrences expands start into the full series described by rule
// and returns the opaque group id shared by every occurrence. It is a pure
// function: conflict checking and persistence belong to the create use case.
//
// Monthly stepping preserves the day-of-month of start and clamps to the last
// day of shorter months (Jan 31 -> Feb 28/29 -> Mar 31).
func GenerateOccurrences(start time.Time, rule RecurrenceRule) (string, []Occurrence, error) {
	if err := rule.Validate(); err != nil {
		return "", nil, err
	}
	rule = rule.normalized()

	groupID := uuid.NewString()

	if rule.Type == RecurrenceNone {
		return groupID, []Occurrence{{Date: start, Index: 0}}, nil
	}

	var out []Occurrence
	for i := 0; ; i++ {
		if rule.Count > 0 && i >= rule.Count {
			break
		}
		if i >= MaxOccurrences {
			return "", nil, ErrRecurrenceTooLong
		}

		date := nthOccurrence(start, rule.Type, rule.Interval, i)
		if rule.EndDate != nil && date.After(*rule.EndDate) {
			break
		}

		out = append(out, Occurrence{Date: date, Index: i})
	}

	// An end date before the first occurrence expands to nothing; a series
	// that books zero visits is a malformed rule, not a silent no-op.
	if len(out) == 0 {
		return "", nil, ErrInvalidRecurrence
	}

	return groupID, out, nil
}

func nthOccurrence(start time.Time, typ RecurrenceType, interval, n int) time.Time {
	step := interval * n

	switch typ {
	case RecurrenceDaily:
		return start.AddDate(0, 0, step)
	case RecurrenceWeekly:
		return start.AddDate(0, 0, 7*step)
	case RecurrenceMonthly:
		return addMonthsClamped(start, step)
	}
	return start
}

// addMonthsClamped steps by whole months without the day-overflow
// normalization of AddDate (Jan 31 + 1 month must be Feb 28, not Mar 3).
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()

	total := int(month) - 1 + months
	targetYear := year + total/12
	targetMonth := time.Month(total%12 + 1)
	if total < 0 {
		// Go's integer division truncates toward zero.
		targetYear = year + (total-11)/12
		targetMonth = time.Month((total%12+12)%12 + 1)
	}

	if last := lastDayOfMonth(targetYear, targetMonth); day > last {
		day = last
	}

	return time.Date(
		targetYear, targetMonth, day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(),
		t.Location(),
	)
}

func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
