package model

import (
	"testing"
	"time"
)

func TestRepeatEncodeDecodeRoundTrip(t *testing.T) {
	cases := []RepeatPolicy{
		RepeatAfterInterval(1, UnitSeconds),
		RepeatAfterInterval(15, UnitMinutes),
		RepeatAfterInterval(9999, UnitYears),
		RepeatEveryInterval(1, UnitDays),
		RepeatEveryInterval(2, UnitWeeks),
		RepeatEveryInterval(6, UnitMonths),
	}
	for _, p := range cases {
		got := DecodeRepeat(p.Encode())
		if got != p {
			t.Fatalf("round trip of %q: got %+v want %+v", p.Encode(), got, p)
		}
	}
}

func TestRepeatEncodeNone(t *testing.T) {
	if got := NoRepeat().Encode(); got != "none" {
		t.Fatalf("expected none encoding, got %q", got)
	}
	if got := DecodeRepeat("none"); got != NoRepeat() {
		t.Fatalf("decode none: got %+v", got)
	}
}

func TestDecodeMalformedFallsBackToNone(t *testing.T) {
	cases := []string{
		"",
		"garbage",
		"every",
		"every_abc_days",
		"every_0_days",
		"every_-3_hours",
		"every_10000_days",
		"sometimes_2_days",
		"after_",
	}
	for _, raw := range cases {
		if got := DecodeRepeat(raw); got != NoRepeat() {
			t.Fatalf("decode %q: expected NoRepeat, got %+v", raw, got)
		}
	}
}

func TestDecodeKeepsMultiWordUnitRemainder(t *testing.T) {
	got := DecodeRepeat("every_2_business_days")
	if got.Kind != RepeatEvery || got.Value != 2 || got.Unit != TimeUnit("business_days") {
		t.Fatalf("unexpected decode: %+v", got)
	}
	// unknown unit has no duration, so it never fires
	if _, ok := got.NextFireAfter(time.Now(), time.Now()); ok {
		t.Fatalf("expected no next fire for unknown unit")
	}
}

func TestNextFireAfterEverySkipsMissedIntervals(t *testing.T) {
	p := RepeatEveryInterval(1, UnitDays)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 1, 3, 12, 0, 0, 0, time.UTC)

	next, ok := p.NextFireAfter(base, now)
	if !ok {
		t.Fatalf("expected a next fire")
	}
	want := time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Fatalf("next fire got %s want %s", next, want)
	}
}

func TestNextFireAfterEveryIsStrictlyFuture(t *testing.T) {
	p := RepeatEveryInterval(2, UnitHours)
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	// now exactly on a boundary must advance a full interval
	now := base.Add(4 * time.Hour)
	next, ok := p.NextFireAfter(base, now)
	if !ok || !next.Equal(base.Add(6*time.Hour)) {
		t.Fatalf("boundary case: got %s ok=%v", next, ok)
	}

	// base still in the future fires at base
	next, ok = p.NextFireAfter(base, base.Add(-time.Minute))
	if !ok || !next.Equal(base) {
		t.Fatalf("future base case: got %s ok=%v", next, ok)
	}
}

func TestNextFireAfterAfterFiresOnceAtBasePlusInterval(t *testing.T) {
	p := RepeatAfterInterval(30, UnitMinutes)
	base := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	next, ok := p.NextFireAfter(base, base)
	if !ok || !next.Equal(base.Add(30*time.Minute)) {
		t.Fatalf("after policy: got %s ok=%v", next, ok)
	}
}

func TestNextFireAfterNone(t *testing.T) {
	if _, ok := NoRepeat().NextFireAfter(time.Now(), time.Now()); ok {
		t.Fatalf("none policy should have no next fire")
	}
}

func TestDescribeCoversAllVariants(t *testing.T) {
	seen := map[string]bool{
		NoRepeat().Describe():                           true,
		RepeatAfterInterval(3, UnitHours).Describe():    true,
		RepeatEveryInterval(10, UnitMinutes).Describe(): true,
	}
	if len(seen) != 3 {
		t.Fatalf("expected three distinct descriptions, got %v", seen)
	}
}

func TestRepeatValidate(t *testing.T) {
	cases := []struct {
		policy RepeatPolicy
		ok     bool
	}{
		{NoRepeat(), true},
		{RepeatEveryInterval(1, UnitSeconds), true},
		{RepeatEveryInterval(9999, UnitYears), true},
		{RepeatEveryInterval(0, UnitDays), false},
		{RepeatEveryInterval(10000, UnitDays), false},
		{RepeatEveryInterval(5, TimeUnit("fortnights")), false},
		{RepeatPolicy{Kind: RepeatKind("sometimes"), Value: 1, Unit: UnitDays}, false},
	}
	for _, tc := range cases {
		err := tc.policy.Validate()
		if tc.ok && err != nil {
			t.Fatalf("policy %+v: unexpected error %v", tc.policy, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("policy %+v: expected error", tc.policy)
		}
	}
}

func TestUnitDurationAcceptsSingularSpelling(t *testing.T) {
	d, ok := TimeUnit("minute").Duration(5)
	if !ok || d != 5*time.Minute {
		t.Fatalf("singular unit: got %v ok=%v", d, ok)
	}
}
