package flow

import (
	"fmt"

	"github.com/M0SENI/VisaBot/internal/domain"
)

// Registry is the closed table of steps keyed by state tag
type Registry struct {
	steps map[domain.State]Step
	flows map[Name][]domain.State
}

// NewRegistry builds a registry. Steps are given in flow order.
// It panics on a duplicate or idle state since the table is fixed at startup.
func NewRegistry(steps ...Step) *Registry {
	r := &Registry{
		steps: make(map[domain.State]Step, len(steps)),
		flows: make(map[Name][]domain.State),
	}
	for _, s := range steps {
		if s.State == domain.StateIdle {
			panic("flow: step without state")
		}
		if _, dup := r.steps[s.State]; dup {
			panic(fmt.Sprintf("flow: duplicate state %q", s.State))
		}
		r.steps[s.State] = s
		r.flows[s.Flow] = append(r.flows[s.Flow], s.State)
	}
	return r
}

// Step returns the descriptor for an exact state tag
func (r *Registry) Step(state domain.State) (Step, bool) {
	s, ok := r.steps[state]
	return s, ok
}

// FlowOf returns the flow a state belongs to
func (r *Registry) FlowOf(state domain.State) (Name, bool) {
	s, ok := r.steps[state]
	if !ok {
		return "", false
	}
	return s.Flow, true
}

// First returns the entry step of a flow
func (r *Registry) First(name Name) (Step, bool) {
	states := r.flows[name]
	if len(states) == 0 {
		return Step{}, false
	}
	return r.steps[states[0]], true
}

// Steps returns the steps of a flow in order
func (r *Registry) Steps(name Name) []Step {
	states := r.flows[name]
	out := make([]Step, 0, len(states))
	for _, st := range states {
		out = append(out, r.steps[st])
	}
	return out
}
