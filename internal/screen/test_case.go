package screen

import (
	"fmt"

	"github.com/felixbrock/flowdeck/internal/domain"
)

// AddTestCase appends a blank enabled test case to the open draft. The id
// is temporary until the backend persists the owning prompt.
func (s *PromptScreen) AddTestCase() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.editing == nil {
		return
	}

	s.editing.Proto.TestCases = append(s.editing.Proto.TestCases, domain.TestCase{
		Id:      tempTestCaseId(),
		Enabled: true,
	})
}

func (s *PromptScreen) RemoveTestCase(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.editing == nil {
		return
	}

	cases := s.editing.Proto.TestCases
	for i := range cases {
		if cases[i].Id == id {
			s.editing.Proto.TestCases = append(cases[:i], cases[i+1:]...)
			return
		}
	}
}

func (s *PromptScreen) SetTestCaseName(id string, name string) {
	s.editTestCase(id, func(tc *domain.TestCase) {
		tc.Name = name
	})
}

// SetTestCaseInput re-parses the input field on every edit. Malformed JSON
// is kept verbatim rather than rejected so typing through an invalid
// interim state works.
func (s *PromptScreen) SetTestCaseInput(id string, text string) {
	s.editTestCase(id, func(tc *domain.TestCase) {
		tc.Input = domain.ParseJSONValue(text)
	})
}

func (s *PromptScreen) SetTestCaseExpectedOutput(id string, text string) {
	s.editTestCase(id, func(tc *domain.TestCase) {
		tc.ExpectedOutput = domain.ParseJSONValue(text)
	})
}

func (s *PromptScreen) SetTestCaseScoringLogic(id string, logic string) {
	s.editTestCase(id, func(tc *domain.TestCase) {
		tc.ScoringLogic = logic
	})
}

func (s *PromptScreen) ToggleTestCase(id string) {
	s.editTestCase(id, func(tc *domain.TestCase) {
		tc.Enabled = !tc.Enabled
	})
}

// ApplyExample overwrites name, input and expected output of one test case
// from the canned library. Other test cases are untouched. The prompt's own
// text is only replaced when the operator confirmed the overwrite.
func (s *PromptScreen) ApplyExample(testCaseId string, exampleKey string, overwritePromptText bool) error {
	example, ok := exampleByKey(exampleKey)
	if !ok {
		return fmt.Errorf("unknown example %s", exampleKey)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.editing == nil {
		return fmt.Errorf("no prompt edit in progress")
	}

	cases := s.editing.Proto.TestCases
	for i := range cases {
		if cases[i].Id != testCaseId {
			continue
		}

		cases[i].Name = example.Name
		cases[i].Input = domain.ParseJSONValue(example.Input)
		cases[i].ExpectedOutput = domain.ParseJSONValue(example.ExpectedOutput)

		if overwritePromptText {
			s.editing.Proto.Text = example.PromptText
		}
		return nil
	}

	return fmt.Errorf("unknown test case %s", testCaseId)
}

func (s *PromptScreen) editTestCase(id string, edit func(tc *domain.TestCase)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.editing == nil {
		return
	}

	cases := s.editing.Proto.TestCases
	for i := range cases {
		if cases[i].Id == id {
			edit(&cases[i])
			return
		}
	}
}
