package parser

import (
	"testing"

	"github.com/insightdelivered/statement-expenses/internal/models"
)

func dateLine(date, rest string) ClassifiedLine {
	return ClassifiedLine{Kind: models.DateLine, Date: date, Text: rest}
}

func TestStepFromIdle(t *testing.T) {
	tests := []struct {
		name    string
		line    ClassifiedLine
		open    bool
		outcome Outcome
	}{
		{"date opens", dateLine("01-02-2023", "SHOP"), true, OutcomeOpened},
		{"amount dropped", ClassifiedLine{Kind: models.AmountLine, Text: "10.00"}, false, OutcomeDropped},
		{"type dropped", ClassifiedLine{Kind: models.TypeLine, Text: "DR"}, false, OutcomeDropped},
		{"continuation dropped", ClassifiedLine{Kind: models.ContinuationLine, Text: "HEADER"}, false, OutcomeDropped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, emitted, outcome := Step(State{}, tt.line)
			if emitted != nil {
				t.Errorf("unexpected emit: %+v", emitted)
			}
			if next.Idle() == tt.open {
				t.Errorf("open: got %v, want %v", !next.Idle(), tt.open)
			}
			if outcome != tt.outcome {
				t.Errorf("outcome: got %q, want %q", outcome, tt.outcome)
			}
		})
	}
}

func TestStepAmountLastWriterWins(t *testing.T) {
	s, _, _ := Step(State{}, dateLine("01-02-2023", "SHOP"))
	s, _, _ = Step(s, ClassifiedLine{Kind: models.AmountLine, Text: "1.00"})
	s, _, _ = Step(s, ClassifiedLine{Kind: models.AmountLine, Text: "2.00"})

	d, ok := s.Draft()
	if !ok {
		t.Fatal("expected open draft")
	}
	if d.Amount != "2.00" {
		t.Errorf("amount: got %q, want %q", d.Amount, "2.00")
	}
}

func TestStepDoesNotMutateInput(t *testing.T) {
	s, _, _ := Step(State{}, dateLine("01-02-2023", "SHOP"))
	_, _, _ = Step(s, ClassifiedLine{Kind: models.ContinuationLine, Text: "MORE"})

	d, _ := s.Draft()
	if d.Description != "SHOP" {
		t.Errorf("input state changed: description %q", d.Description)
	}
}

func TestStepTypeLine(t *testing.T) {
	open, _, _ := Step(State{}, dateLine("01-02-2023", "SHOP"))

	next, emitted, outcome := Step(open, ClassifiedLine{Kind: models.TypeLine, Text: "DR"})
	if emitted == nil || emitted.Type != "DR" {
		t.Fatalf("expected DR emit, got %+v", emitted)
	}
	if !next.Idle() || outcome != OutcomeEmitted {
		t.Errorf("after DR: idle=%v outcome=%q", next.Idle(), outcome)
	}

	next, emitted, outcome = Step(open, ClassifiedLine{Kind: models.TypeLine, Text: "CR"})
	if emitted != nil {
		t.Errorf("CR must not emit, got %+v", emitted)
	}
	if !next.Idle() || outcome != OutcomeDiscarded {
		t.Errorf("after CR: idle=%v outcome=%q", next.Idle(), outcome)
	}
}

func TestStepDateInterruptsDraft(t *testing.T) {
	s, _, _ := Step(State{}, dateLine("01-02-2023", "FIRST"))
	s, _, _ = Step(s, ClassifiedLine{Kind: models.AmountLine, Text: "9.99"})

	next, emitted, outcome := Step(s, dateLine("02-02-2023", "SECOND"))
	if emitted != nil {
		t.Errorf("untyped draft must not emit, got %+v", emitted)
	}
	if outcome != OutcomeReopened {
		t.Errorf("outcome: got %q, want %q", outcome, OutcomeReopened)
	}
	d, _ := next.Draft()
	if d.Date != "02-02-2023" || d.Description != "SECOND" || d.Amount != "" || d.Type != "" {
		t.Errorf("new draft: got %+v", d)
	}

	// A debit draft still open when a date arrives is emitted first.
	debit := State{open: true, draft: models.Transaction{Date: "01-02-2023", Description: "X", Type: "DR"}}
	_, emitted, outcome = Step(debit, dateLine("02-02-2023", "Y"))
	if emitted == nil || emitted.Description != "X" {
		t.Errorf("expected open debit to be emitted, got %+v", emitted)
	}
	if outcome != OutcomeEmitted {
		t.Errorf("outcome: got %q, want %q", outcome, OutcomeEmitted)
	}
}

func TestStepEmptyContinuationIsNoop(t *testing.T) {
	s, _, _ := Step(State{}, dateLine("01-02-2023", "A"))
	s, _, _ = Step(s, ClassifiedLine{Kind: models.ContinuationLine, Text: ""})
	s, _, _ = Step(s, ClassifiedLine{Kind: models.ContinuationLine, Text: "B"})

	d, _ := s.Draft()
	if d.Description != "A B" {
		t.Errorf("description: got %q, want %q", d.Description, "A B")
	}
}

func TestFlush(t *testing.T) {
	untyped := State{open: true, draft: models.Transaction{Date: "01-02-2023", Description: "TAIL", Amount: "5.00"}}
	credit := State{open: true, draft: models.Transaction{Date: "01-02-2023", Type: "CR"}}
	debit := State{open: true, draft: models.Transaction{Date: "01-02-2023", Description: " D ", Type: "DR"}}

	tests := []struct {
		name         string
		state        State
		flushUntyped bool
		wantEmit     bool
	}{
		{"idle", State{}, false, false},
		{"idle with flag", State{}, true, false},
		{"untyped dropped", untyped, false, false},
		{"untyped emitted with flag", untyped, true, true},
		{"credit never emitted", credit, true, false},
		{"debit emitted", debit, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Flush(tt.state, tt.flushUntyped)
			if (got != nil) != tt.wantEmit {
				t.Fatalf("emit: got %+v, want %v", got, tt.wantEmit)
			}
			if got != nil && got.Type != "DR" {
				t.Errorf("type: got %q, want DR", got.Type)
			}
		})
	}

	if got := Flush(debit, false); got.Description != "D" {
		t.Errorf("flushed description not trimmed: %q", got.Description)
	}
}
