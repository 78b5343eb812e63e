package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolutionValidate(t *testing.T) {
	cases := []struct {
		name     string
		solution Solution
		ok       bool
	}{
		{"prompt with text", Solution{Type: SolutionPrompt, Text: "Use this."}, true},
		{"prompt without text", Solution{Type: SolutionPrompt}, false},
		{"prompt with blank text", Solution{Type: SolutionPrompt, Text: "   "}, false},
		{"workflow with valid json", Solution{Type: SolutionN8NWorkflow, JSON: `{"nodes":[]}`, Filename: "flow.json"}, true},
		{"workflow with invalid json", Solution{Type: SolutionN8NWorkflow, JSON: "{nope"}, false},
		{"workflow without json", Solution{Type: SolutionN8NWorkflow}, false},
		{"other with description", Solution{Type: SolutionOther, Description: "Handled by hand."}, true},
		{"other without description", Solution{Type: SolutionOther}, false},
		{"unknown type", Solution{Type: "magic"}, false},
		{"empty type", Solution{}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.solution.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidSolution)
			}
		})
	}
}

func TestSolutionEncodeRoundTrips(t *testing.T) {
	s := &Solution{Type: SolutionN8NWorkflow, JSON: `{"nodes":[]}`, Filename: "flow.json"}
	encoded, err := s.Encode()
	require.NoError(t, err)
	assert.Contains(t, encoded, `"type":"n8n_workflow"`)
	assert.Contains(t, encoded, `"filename":"flow.json"`)
}

func TestValidUrgency(t *testing.T) {
	for _, u := range []string{UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical} {
		assert.True(t, ValidUrgency(u))
	}
	assert.False(t, ValidUrgency("urgent"))
	assert.False(t, ValidUrgency(""))
}
