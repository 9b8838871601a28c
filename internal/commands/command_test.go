package commands

import (
	"errors"
	"testing"

	"github.com/sandeepkv93/remindd/internal/model"
)

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/add pay rent tomorrow", TypeAdd},
		{"remind standup in 10 minutes", TypeRemind},
		{"done task-42", TypeDone},
		{"delete reminder rem-7", TypeDelete},
		{"snooze rem-7 2 hours", TypeSnooze},
		{"show pending", TypeShow},
		{"/online", TypeOnline},
		{"offline", TypeOffline},
		{"sync", TypeSync},
	}

	for _, tc := range cases {
		cmd, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if cmd.Type != tc.typeWant {
			t.Fatalf("parse %q type = %s, want %s", tc.in, cmd.Type, tc.typeWant)
		}
	}
}

func TestParseRemindWithRepeatClause(t *testing.T) {
	cmd, err := Parse("remind water plants in 1 hour every 3 days")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	r := cmd.Remind
	if r.Title != "water plants" {
		t.Fatalf("unexpected title: %q", r.Title)
	}
	if r.In.Value != 1 || r.In.Unit != model.UnitHours {
		t.Fatalf("unexpected interval: %+v", r.In)
	}
	if r.Repeat.Kind != model.RepeatEvery || r.Repeat.Value != 3 || r.Repeat.Unit != model.UnitDays {
		t.Fatalf("unexpected repeat: %+v", r.Repeat)
	}
}

func TestParseRemindWithoutRepeatIsOneShot(t *testing.T) {
	cmd, err := Parse("remind call dentist in 30 minutes")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if !cmd.Remind.Repeat.FiresOnce() {
		t.Fatalf("expected one-shot policy, got %+v", cmd.Remind.Repeat)
	}
}

func TestParseSnoozeDefaultsDuration(t *testing.T) {
	cmd, err := Parse("snooze rem-7")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Snooze.For != nil {
		t.Fatalf("expected nil duration for default snooze, got %+v", cmd.Snooze.For)
	}
}

func TestParseInvalidArguments(t *testing.T) {
	cases := []string{
		"",
		"/",
		"add",
		"remind in 10 minutes",
		"remind title in zero minutes",
		"remind title in 5 fortnights",
		"remind t in 1 hour every 3",
		"delete universe x",
		"show everything",
		"sync now",
		"done",
	}
	for _, in := range cases {
		if _, err := Parse(in); err == nil {
			t.Fatalf("parse %q: expected error", in)
		}
	}
}

func TestParseUnknownCommand(t *testing.T) {
	_, err := Parse("/unknown do x")
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeUnknownCommand {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestParseIntervalAcceptsSingularUnits(t *testing.T) {
	cmd, err := Parse("remind stretch in 1 minute")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Remind.In.Unit != model.UnitMinutes {
		t.Fatalf("singular unit not normalized: %+v", cmd.Remind.In)
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("/add write docs")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	called := false
	res, err := Execute(cmd, Handlers{
		Add: func(a AddArgs) (Result, error) {
			called = true
			if a.Title != "write docs" {
				t.Fatalf("unexpected title: %q", a.Title)
			}
			return Result{Message: "ok"}, nil
		},
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !called || res.Message != "ok" {
		t.Fatalf("dispatch failed, called=%v res=%+v", called, res)
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	cmd, err := Parse("show tasks")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = Execute(cmd, Handlers{})
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeHandlerMissing {
		t.Fatalf("expected missing handler error, got %v", err)
	}
}
