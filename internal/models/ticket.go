package models

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Ticket urgencies.
const (
	UrgencyLow      = "low"
	UrgencyMedium   = "medium"
	UrgencyHigh     = "high"
	UrgencyCritical = "critical"
)

// Ticket statuses. Transitions are forward-only: new -> in_progress -> completed.
const (
	StatusNew        = "new"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Solution types for the tagged solution payload.
const (
	SolutionPrompt      = "prompt"
	SolutionN8NWorkflow = "n8n_workflow"
	SolutionOther       = "other"
)

// Ticket is a unit of assigned work. The edited flag is set permanently on
// the first edit; further edits are rejected.
type Ticket struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Urgency      string     `json:"urgency"`
	Details      string     `json:"details,omitempty"`
	Deadline     *time.Time `json:"deadline,omitempty"`
	Status       string     `json:"status"`
	AssignedTo   string     `json:"assigned_to"`
	CreatedBy    string     `json:"created_by"`
	SolutionType string     `json:"solution_type,omitempty"`
	SolutionData string     `json:"solution_data,omitempty"`
	OutputResult string     `json:"output_result,omitempty"`
	Edited       bool       `json:"edited"`
	UserNotified bool       `json:"user_notified"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Joined relations, populated on reads.
	Assignee *User `json:"assignee,omitempty"`
	Creator  *User `json:"creator,omitempty"`
}

// ValidUrgency reports whether urgency is one of the known levels.
func ValidUrgency(urgency string) bool {
	switch urgency {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical:
		return true
	}
	return false
}

// Solution is the discriminated union carried by a completed ticket.
// Exactly the fields matching the SolutionType tag must be present.
type Solution struct {
	Type string `json:"type"`

	// prompt
	Text string `json:"text,omitempty"`

	// n8n_workflow
	JSON     string `json:"json,omitempty"`
	Filename string `json:"filename,omitempty"`

	// other
	Description string `json:"description,omitempty"`
	FileContent string `json:"file_content,omitempty"`
}

// ErrInvalidSolution is returned when a solution payload does not match its
// declared type tag.
var ErrInvalidSolution = errors.New("solution payload does not match solution_type")

// Validate checks the payload shape against the type tag.
func (s *Solution) Validate() error {
	switch s.Type {
	case SolutionPrompt:
		if strings.TrimSpace(s.Text) == "" {
			return ErrInvalidSolution
		}
	case SolutionN8NWorkflow:
		if strings.TrimSpace(s.JSON) == "" {
			return ErrInvalidSolution
		}
		if !json.Valid([]byte(s.JSON)) {
			return ErrInvalidSolution
		}
	case SolutionOther:
		if strings.TrimSpace(s.Description) == "" {
			return ErrInvalidSolution
		}
	default:
		return ErrInvalidSolution
	}
	return nil
}

// Encode serializes the solution payload for storage.
func (s *Solution) Encode() (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
