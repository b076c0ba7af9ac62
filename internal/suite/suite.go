// File: internal/suite/suite.go

// Package suite defines the prompt suite driven against the chatbot: each
// test case pairs a prompt with the keywords a sensible reply should contain.
package suite

import (
	"fmt"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// TestCase is a single prompt and its expected-keyword set. Immutable once
// loaded; keyword matching downstream is case-insensitive.
type TestCase struct {
	Input            string   `json:"input"`
	ExpectedKeywords []string `json:"expected_keywords"`
}

// Default returns the built-in prompt suite used when no suite file is
// configured. The prompts exercise basic capability and creative-writing
// behavior of a general-purpose chatbot.
func Default() []TestCase {
	return []TestCase{
		{
			Input:            "What is Julius AI capable of doing?",
			ExpectedKeywords: []string{"analyze", "data", "AI", "chatbot"},
		},
		{
			Input:            "Can you help me write a short poem about autumn?",
			ExpectedKeywords: []string{"poem", "autumn", "fall"},
		},
	}
}

// Load reads a prompt suite from a JSON file, or returns the built-in
// default suite when path is empty.
func Load(path string) ([]TestCase, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite file %s: %w", path, err)
	}

	var cases []TestCase
	if err := json.Unmarshal(data, &cases); err != nil {
		return nil, fmt.Errorf("failed to parse suite file %s: %w", path, err)
	}

	if err := validate(cases); err != nil {
		return nil, fmt.Errorf("invalid suite file %s: %w", path, err)
	}
	return cases, nil
}

// validate rejects suites that would silently do nothing or drive empty
// prompts into the page.
func validate(cases []TestCase) error {
	if len(cases) == 0 {
		return fmt.Errorf("suite contains no test cases")
	}
	for i, tc := range cases {
		if strings.TrimSpace(tc.Input) == "" {
			return fmt.Errorf("test case %d has an empty input", i)
		}
	}
	return nil
}
