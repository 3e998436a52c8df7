package runtime

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

type IntervalUnit byte

const (
	UnitDay    IntervalUnit = 'D'
	UnitWeek   IntervalUnit = 'W'
	UnitMonth  IntervalUnit = 'M'
	UnitYear   IntervalUnit = 'Y'
	UnitHour   IntervalUnit = 'H'
	UnitMinute IntervalUnit = 'N'
	UnitSecond IntervalUnit = 'S'
)

// maxCalendarAmount bounds day, week, month and year amounts so calendar
// normalisation stays inside int range.
const maxCalendarAmount = math.MaxInt32

// Interval is a signed calendar increment such as "2W" or "-3M".
type Interval struct {
	Amount int
	Unit   IntervalUnit
}

func (i Interval) String() string {
	return strconv.Itoa(i.Amount) + string(i.Unit)
}

// ParseInterval reads `[sign]<int>?<suffix>?`. The suffix is one of D W M Y H N S
// (case-insensitive); without suffix the unit is days, without magnitude it is 1.
func ParseInterval(text string) (Interval, error) {
	value := strings.ToUpper(strings.TrimSpace(text))
	if value == "" {
		return Interval{}, fmt.Errorf("empty date interval")
	}
	unit := UnitDay
	switch last := IntervalUnit(value[len(value)-1]); last {
	case UnitDay, UnitWeek, UnitMonth, UnitYear, UnitHour, UnitMinute, UnitSecond:
		unit = last
		value = value[:len(value)-1]
	}
	switch value {
	case "", "+":
		return Interval{Amount: 1, Unit: unit}, nil
	case "-":
		return Interval{Amount: -1, Unit: unit}, nil
	}
	amount, err := strconv.Atoi(value)
	if err != nil {
		return Interval{}, fmt.Errorf("invalid date interval '%s'", text)
	}
	interval := Interval{Amount: amount, Unit: unit}
	if err := interval.checkRange(); err != nil {
		return Interval{}, err
	}
	return interval, nil
}

// DaysInterval converts a whole number of days into an interval.
func DaysInterval(days float64) (Interval, error) {
	if math.IsNaN(days) || math.IsInf(days, 0) || days != math.Trunc(days) {
		return Interval{}, fmt.Errorf("date increment must be a whole number of days, got %s", Format(days))
	}
	if math.Abs(days) > maxCalendarAmount {
		return Interval{}, fmt.Errorf("date increment of %s days is out of range", Format(days))
	}
	return Interval{Amount: int(days), Unit: UnitDay}, nil
}

// checkRange rejects amounts whose shift cannot be represented: clock units
// must fit a time.Duration, calendar units stay within maxCalendarAmount.
func (i Interval) checkRange() error {
	limit := int64(maxCalendarAmount)
	switch i.Unit {
	case UnitHour:
		limit = int64(math.MaxInt64 / time.Hour)
	case UnitMinute:
		limit = int64(math.MaxInt64 / time.Minute)
	case UnitSecond:
		limit = int64(math.MaxInt64 / time.Second)
	}
	if amount := int64(i.Amount); amount > limit || amount < -limit {
		return fmt.Errorf("date interval %s is out of range", i)
	}
	return nil
}

// Negative reports whether applying the interval moves a date backwards.
func (i Interval) Negative() bool { return i.Amount < 0 }

// AddTo applies the interval to t; negate subtracts it instead.
func (i Interval) AddTo(t time.Time, negate bool) time.Time {
	amount := i.Amount
	if negate {
		amount = -amount
	}
	switch i.Unit {
	case UnitWeek:
		return t.AddDate(0, 0, 7*amount)
	case UnitMonth:
		return addMonths(t, amount)
	case UnitYear:
		return addMonths(t, 12*amount)
	case UnitHour:
		return t.Add(time.Duration(amount) * time.Hour)
	case UnitMinute:
		return t.Add(time.Duration(amount) * time.Minute)
	case UnitSecond:
		return t.Add(time.Duration(amount) * time.Second)
	default:
		return t.AddDate(0, 0, amount)
	}
}

// addMonths clamps the day to the last day of the target month (Jan 31 + 1M is
// Feb 28/29), unlike time.AddDate which overflows into the next month.
func addMonths(t time.Time, months int) time.Time {
	total := int(t.Month()) - 1 + months
	year := t.Year() + total/12
	month := total % 12
	if month < 0 {
		month += 12
		year--
	}
	target := time.Month(month + 1)
	day := t.Day()
	if last := daysIn(year, target, t.Location()); day > last {
		day = last
	}
	return time.Date(year, target, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}
