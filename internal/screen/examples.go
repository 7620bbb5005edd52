package screen

import (
	_ "embed"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"
)

// Example is one entry of the canned test-case library. Applying it fills a
// test case's name, input and expected output; the paired prompt text is
// only taken over when the operator confirms the overwrite.
type Example struct {
	Key            string `yaml:"key"`
	Name           string `yaml:"name"`
	PromptText     string `yaml:"prompt_text"`
	Input          string `yaml:"input"`
	ExpectedOutput string `yaml:"expected_output"`
}

//go:embed examples.yaml
var examplesYaml []byte

var exampleLibrary = loadExamples()

func loadExamples() []Example {
	var examples []Example
	if err := yaml.Unmarshal(examplesYaml, &examples); err != nil {
		// The library ships with the binary; a parse failure is a build
		// defect, not a runtime condition.
		slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
		return nil
	}
	return examples
}

// Examples lists the canned library in declaration order.
func Examples() []Example {
	return exampleLibrary
}

func exampleByKey(key string) (Example, bool) {
	for _, e := range exampleLibrary {
		if e.Key == key {
			return e, true
		}
	}
	return Example{}, false
}
