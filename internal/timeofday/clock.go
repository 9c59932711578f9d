package timeofday

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MinutesPerDay is the exclusive upper bound of a Clock inside one civil day.
const MinutesPerDay = 24 * 60

var ErrInvalidClock = errors.New("invalid time of day")

// Clock is a civil time of day expressed as minutes since midnight.
// 24:00 is accepted so a schedule can end at midnight.
type Clock int

// Parse reads "HH:MM" or "HH:MM:SS". Seconds are validated and dropped.
func Parse(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	nums := make([]int, len(parts))
	for i, p := range parts {
		if len(p) != 2 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
		}
		nums[i] = n
	}

	h, m := nums[0], nums[1]
	sec := 0
	if len(nums) == 3 {
		sec = nums[2]
	}

	if m > 59 || sec > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	if h > 24 || (h == 24 && (m != 0 || sec != 0)) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	return Clock(h*60 + m), nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(s string) Clock {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Of returns the time of day of t in t's own location.
func Of(t time.Time) Clock {
	return Clock(t.Hour()*60 + t.Minute())
}

func (c Clock) Minutes() int {
	return int(c)
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// On anchors the clock on the civil day of day, in day's location.
func (c Clock) On(day time.Time) time.Time {
	return time.Date(
		day.Year(), day.Month(), day.Day(),
		int(c)/60, int(c)%60, 0, 0,
		day.Location(),
	)
}
