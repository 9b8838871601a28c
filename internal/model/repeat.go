package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidRepeatKind  = errors.New("model: invalid repeat kind")
	ErrInvalidRepeatValue = errors.New("model: invalid repeat value")
	ErrInvalidTimeUnit    = errors.New("model: invalid time unit")
)

const (
	minRepeatValue = 1
	maxRepeatValue = 9999
)

type TimeUnit string

const (
	UnitSeconds TimeUnit = "seconds"
	UnitMinutes TimeUnit = "minutes"
	UnitHours   TimeUnit = "hours"
	UnitDays    TimeUnit = "days"
	UnitWeeks   TimeUnit = "weeks"
	UnitMonths  TimeUnit = "months"
	UnitYears   TimeUnit = "years"
)

func (u TimeUnit) IsValid() bool {
	switch u {
	case UnitSeconds, UnitMinutes, UnitHours, UnitDays, UnitWeeks, UnitMonths, UnitYears:
		return true
	default:
		return false
	}
}

// Duration converts value*unit to a time.Duration. Months and years are
// approximated as 30 and 365 days. Singular unit spellings are accepted on
// input so encodings written by older builds keep decoding.
func (u TimeUnit) Duration(value int) (time.Duration, bool) {
	if value <= 0 {
		return 0, false
	}
	v := time.Duration(value)
	switch strings.TrimSuffix(string(u), "s") + "s" {
	case string(UnitSeconds):
		return v * time.Second, true
	case string(UnitMinutes):
		return v * time.Minute, true
	case string(UnitHours):
		return v * time.Hour, true
	case string(UnitDays):
		return v * 24 * time.Hour, true
	case string(UnitWeeks):
		return v * 7 * 24 * time.Hour, true
	case string(UnitMonths):
		return v * 30 * 24 * time.Hour, true
	case string(UnitYears):
		return v * 365 * 24 * time.Hour, true
	default:
		return 0, false
	}
}

type RepeatKind string

const (
	RepeatNone  RepeatKind = "none"
	RepeatAfter RepeatKind = "after"
	RepeatEvery RepeatKind = "every"
)

// RepeatPolicy is the repeat rule attached to a reminder. The canonical wire
// form is "{none|after|every}_{value}_{unit}", with "none" alone meaning no
// repeat.
type RepeatPolicy struct {
	Kind  RepeatKind
	Value int
	Unit  TimeUnit
}

func NoRepeat() RepeatPolicy {
	return RepeatPolicy{Kind: RepeatNone}
}

func RepeatAfterInterval(value int, unit TimeUnit) RepeatPolicy {
	return RepeatPolicy{Kind: RepeatAfter, Value: value, Unit: unit}
}

func RepeatEveryInterval(value int, unit TimeUnit) RepeatPolicy {
	return RepeatPolicy{Kind: RepeatEvery, Value: value, Unit: unit}
}

// FiresOnce reports whether the reminder should be deactivated after its
// first trigger. Only "every" policies keep re-firing.
func (p RepeatPolicy) FiresOnce() bool {
	return p.Kind != RepeatEvery
}

func (p RepeatPolicy) Validate() error {
	switch p.Kind {
	case RepeatNone:
		return nil
	case RepeatAfter, RepeatEvery:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidRepeatKind, p.Kind)
	}
	if p.Value < minRepeatValue || p.Value > maxRepeatValue {
		return fmt.Errorf("%w: %d", ErrInvalidRepeatValue, p.Value)
	}
	if !p.Unit.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidTimeUnit, p.Unit)
	}
	return nil
}

// Encode renders the canonical string form.
func (p RepeatPolicy) Encode() string {
	if p.Kind == RepeatNone {
		return string(RepeatNone)
	}
	return fmt.Sprintf("%s_%d_%s", p.Kind, p.Value, p.Unit)
}

// DecodeRepeat parses the canonical string form. Any malformed input decodes
// to NoRepeat rather than failing: fewer than three tokens, an unknown kind,
// a non-numeric or out-of-range value. The unit token keeps any trailing
// underscore-separated remainder so future multi-word units stay
// representable.
func DecodeRepeat(raw string) RepeatPolicy {
	s := strings.TrimSpace(raw)
	if s == "" || s == string(RepeatNone) {
		return NoRepeat()
	}
	parts := strings.SplitN(s, "_", 3)
	if len(parts) < 3 {
		return NoRepeat()
	}
	kind := RepeatKind(parts[0])
	if kind != RepeatAfter && kind != RepeatEvery {
		return NoRepeat()
	}
	value, err := strconv.Atoi(parts[1])
	if err != nil || value < minRepeatValue || value > maxRepeatValue {
		return NoRepeat()
	}
	return RepeatPolicy{Kind: kind, Value: value, Unit: TimeUnit(parts[2])}
}

// Describe renders the policy for status lines and reminder detail panes.
func (p RepeatPolicy) Describe() string {
	switch p.Kind {
	case RepeatAfter:
		return fmt.Sprintf("fires once, %d %s after creation", p.Value, p.Unit)
	case RepeatEvery:
		return fmt.Sprintf("repeats every %d %s", p.Value, p.Unit)
	default:
		return "does not repeat"
	}
}

// NextFireAfter returns the next instant the policy should fire, given the
// instant it is anchored to and the current time. For "every" policies the
// result is the smallest base+k*interval strictly after now, so intervals
// missed while the app was closed are skipped instead of queued. "after"
// policies fire at base+interval exactly once; "none" has no next fire.
func (p RepeatPolicy) NextFireAfter(base, now time.Time) (time.Time, bool) {
	d, ok := p.Unit.Duration(p.Value)
	switch p.Kind {
	case RepeatAfter:
		if !ok {
			return time.Time{}, false
		}
		return base.Add(d), true
	case RepeatEvery:
		if !ok {
			return time.Time{}, false
		}
		if base.After(now) {
			return base, true
		}
		steps := int64(now.Sub(base)/d) + 1
		return base.Add(time.Duration(steps) * d), true
	default:
		return time.Time{}, false
	}
}
