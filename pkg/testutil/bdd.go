package testutil

import "testing"

// Scenario runs Given/When/Then steps as ordered subtests. Later steps build on
// the state earlier ones leave behind, so once a step fails the rest are skipped
// instead of failing with misleading errors.
type Scenario struct {
	t      *testing.T
	failed bool
}

func NewScenario(t *testing.T) *Scenario {
	return &Scenario{t: t}
}

func (s *Scenario) Given(desc string, fn func(t *testing.T)) { s.step("Given", desc, fn) }

func (s *Scenario) When(desc string, fn func(t *testing.T)) { s.step("When", desc, fn) }

func (s *Scenario) Then(desc string, fn func(t *testing.T)) { s.step("Then", desc, fn) }

func (s *Scenario) And(desc string, fn func(t *testing.T)) { s.step("And", desc, fn) }

func (s *Scenario) step(keyword, desc string, fn func(t *testing.T)) {
	s.t.Helper()
	name := keyword + " " + desc
	if s.failed {
		s.t.Run(name, func(t *testing.T) {
			t.Skip("an earlier step failed")
		})
		return
	}
	if !s.t.Run(name, fn) {
		s.failed = true
	}
}
