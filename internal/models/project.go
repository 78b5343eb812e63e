package models

import "time"

// Project is a lightweight standalone entity with no cross-entity invariant
// beyond foreign-key existence.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	Progress    int       `json:"progress"`
	CreatedBy   string    `json:"created_by,omitempty"`
	AssignedTo  string    `json:"assigned_to,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
