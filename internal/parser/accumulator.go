package parser

import (
	"strings"

	"github.com/insightdelivered/statement-expenses/internal/models"
)

// Outcome describes what a single step did with a classified line.
type Outcome string

const (
	OutcomeOpened    Outcome = "opened"    // new draft from Idle
	OutcomeReopened  Outcome = "reopened"  // open draft replaced by a new one
	OutcomeAmount    Outcome = "amount"    // amount written to the draft
	OutcomeAppended  Outcome = "appended"  // description extended
	OutcomeEmitted   Outcome = "emitted"   // draft promoted to output
	OutcomeDiscarded Outcome = "discarded" // typed draft dropped (CR)
	OutcomeDropped   Outcome = "dropped"   // line ignored, no draft open
)

// State is the accumulator state: Idle, or Open with a draft in progress.
// The zero value is Idle. States are values; Step never mutates its input.
type State struct {
	open  bool
	draft models.Transaction
}

// Idle reports whether no draft is in progress.
func (s State) Idle() bool { return !s.open }

// Draft returns the draft in progress and whether there is one.
func (s State) Draft() (models.Transaction, bool) {
	return s.draft, s.open
}

func openState(cl ClassifiedLine) State {
	return State{
		open:  true,
		draft: models.Transaction{Date: cl.Date, Description: cl.Text},
	}
}

// Step applies one classified line to the state and returns the next state
// and, when the line completed a debit, the emitted transaction.
func Step(s State, cl ClassifiedLine) (State, *models.Transaction, Outcome) {
	switch cl.Kind {
	case models.DateLine:
		if !s.open {
			return openState(cl), nil, OutcomeOpened
		}
		// A new date interrupts the open draft. It is emitted only if it was
		// already a debit; otherwise it is lost.
		if s.draft.Type == models.TypeDebit {
			return openState(cl), emit(s.draft), OutcomeEmitted
		}
		return openState(cl), nil, OutcomeReopened

	case models.AmountLine:
		if !s.open {
			return s, nil, OutcomeDropped
		}
		s.draft.Amount = cl.Text
		return s, nil, OutcomeAmount

	case models.TypeLine:
		if !s.open {
			return s, nil, OutcomeDropped
		}
		s.draft.Type = cl.Text
		if s.draft.Type == models.TypeDebit {
			return State{}, emit(s.draft), OutcomeEmitted
		}
		return State{}, nil, OutcomeDiscarded

	default:
		if !s.open {
			return s, nil, OutcomeDropped
		}
		if cl.Text != "" {
			s.draft.Description += " " + cl.Text
		}
		return s, nil, OutcomeAppended
	}
}

// Flush applies the end-of-input rule. An open draft is emitted only if it is
// a debit; every type line already resets to Idle, so with default options
// this never emits. With flushUntyped an untyped trailing draft is emitted as
// a debit.
func Flush(s State, flushUntyped bool) *models.Transaction {
	if !s.open {
		return nil
	}
	if s.draft.Type == models.TypeDebit {
		return emit(s.draft)
	}
	if flushUntyped && s.draft.Type == "" {
		d := s.draft
		d.Type = models.TypeDebit
		return emit(d)
	}
	return nil
}

func emit(d models.Transaction) *models.Transaction {
	d.Description = strings.TrimSpace(d.Description)
	return &d
}
