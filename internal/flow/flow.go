package flow

import (
	"strings"

	"github.com/M0SENI/VisaBot/internal/domain"
)

// Name identifies a flow
type Name string

const (
	Order           Name = "order"
	ProductCreation Name = "product_creation"
	PriceEdit       Name = "price_edit"
	DescriptionEdit Name = "description_edit"
)

// DoneSentinel ends a repeatable step
const DoneSentinel = "/done"

// InputKind is the kind of content carried by an inbound message
type InputKind int

const (
	KindText InputKind = iota
	KindPhoto
	KindVideo
	KindDocument
)

func (k InputKind) String() string {
	switch k {
	case KindPhoto:
		return "photo"
	case KindVideo:
		return "video"
	case KindDocument:
		return "document"
	default:
		return "text"
	}
}

// Input is an inbound message reduced to what the steps look at
type Input struct {
	Kind   InputKind
	Text   string
	FileID string
	MIME   string
}

// Validator checks raw input and returns the value to store under the step key
type Validator func(in Input) (any, error)

// Step describes one state of a flow
type Step struct {
	State domain.State
	Flow  Name
	// Key is the data key this step writes
	Key string
	// Next is StateIdle for the last step
	Next     domain.State
	Prompt   string
	Reprompt string
	Validate Validator
	// Repeat steps accumulate values into a list until DoneSentinel
	Repeat bool
	// Skippable steps may be passed over without input
	Skippable bool
}

// Terminal reports whether completing this step ends the flow
func (s Step) Terminal() bool {
	return s.Next == domain.StateIdle
}

// Outcome is what the dispatcher should do with a step result
type Outcome int

const (
	// Reject leaves state and data unchanged and re-prompts
	Reject Outcome = iota
	// Advance moves to Next with the value stored
	Advance
	// Accumulate appends the value to the step's list and stays
	Accumulate
	// Complete hands the data to the terminal action
	Complete
)

func (o Outcome) String() string {
	switch o {
	case Advance:
		return "advance"
	case Accumulate:
		return "accumulate"
	case Complete:
		return "complete"
	default:
		return "reject"
	}
}

// Result is the outcome of applying input to a step
type Result struct {
	Outcome Outcome
	// Value is the validated input; nil on Reject and on the done sentinel
	Value any
	// Data is the session data after the step; nil on Reject and Accumulate
	Data domain.Data
	Err  error
}

// Apply validates input against the step. It never mutates data.
func (s Step) Apply(data domain.Data, in Input) Result {
	if s.Repeat && in.Kind == KindText && strings.TrimSpace(in.Text) == DoneSentinel {
		return Result{Outcome: Complete, Data: data.Clone()}
	}

	value, err := s.Validate(in)
	if err != nil {
		return Result{Outcome: Reject, Err: err}
	}

	if s.Repeat {
		return Result{Outcome: Accumulate, Value: value}
	}

	next := data.Clone()
	next[s.Key] = value
	if s.Terminal() {
		return Result{Outcome: Complete, Value: value, Data: next}
	}
	return Result{Outcome: Advance, Value: value, Data: next}
}

// Skip passes over a skippable step. ok is false when the step cannot be skipped.
func (s Step) Skip(data domain.Data) (Result, bool) {
	if !s.Skippable {
		return Result{Outcome: Reject}, false
	}
	if s.Terminal() {
		return Result{Outcome: Complete, Data: data.Clone()}, true
	}
	return Result{Outcome: Advance, Data: data.Clone()}, true
}
