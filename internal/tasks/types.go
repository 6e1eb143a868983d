package tasks

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrInvalidTask  = errors.New("invalid task")
)

type CreateTaskRequest struct {
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	RevenuePotential float64 `json:"revenue_potential"`
	ContactPerson    string  `json:"contact_person"`
	Account          string  `json:"account"`
	NextSteps        string  `json:"next_steps"`
	DueDate          *Date   `json:"due_date"`
	Status           Status  `json:"status"`
}

func (r CreateTaskRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidTask)
	}
	if r.RevenuePotential < 0 {
		return fmt.Errorf("%w: revenue_potential must not be negative", ErrInvalidTask)
	}
	if r.Status != "" && !r.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTask, r.Status)
	}
	return nil
}

// Task builds the unsaved task; an empty status means open.
func (r CreateTaskRequest) Task() Task {
	status := r.Status
	if status == "" {
		status = StatusOpen
	}
	return Task{
		Title:            strings.TrimSpace(r.Title),
		Description:      r.Description,
		RevenuePotential: r.RevenuePotential,
		ContactPerson:    r.ContactPerson,
		Account:          r.Account,
		NextSteps:        r.NextSteps,
		DueDate:          r.DueDate,
		Status:           status,
	}
}

// OptionalDate tells an absent due_date apart from an explicit null.
type OptionalDate struct {
	Set   bool
	Value *Date
}

func (o *OptionalDate) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	var d Date
	if err := json.Unmarshal(b, &d); err != nil {
		return err
	}
	o.Value = &d
	return nil
}

// UpdateTaskRequest carries only the fields the client sent.
type UpdateTaskRequest struct {
	Title            *string      `json:"title"`
	Description      *string      `json:"description"`
	RevenuePotential *float64     `json:"revenue_potential"`
	ContactPerson    *string      `json:"contact_person"`
	Account          *string      `json:"account"`
	NextSteps        *string      `json:"next_steps"`
	DueDate          OptionalDate `json:"due_date"`
	Status           *Status      `json:"status"`
}

func (r UpdateTaskRequest) Validate() error {
	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		return fmt.Errorf("%w: title must not be empty", ErrInvalidTask)
	}
	if r.RevenuePotential != nil && *r.RevenuePotential < 0 {
		return fmt.Errorf("%w: revenue_potential must not be negative", ErrInvalidTask)
	}
	if r.Status != nil && !r.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTask, *r.Status)
	}
	return nil
}

// Apply returns t with the sent fields overwritten.
func (r UpdateTaskRequest) Apply(t Task) Task {
	if r.Title != nil {
		t.Title = strings.TrimSpace(*r.Title)
	}
	if r.Description != nil {
		t.Description = *r.Description
	}
	if r.RevenuePotential != nil {
		t.RevenuePotential = *r.RevenuePotential
	}
	if r.ContactPerson != nil {
		t.ContactPerson = *r.ContactPerson
	}
	if r.Account != nil {
		t.Account = *r.Account
	}
	if r.NextSteps != nil {
		t.NextSteps = *r.NextSteps
	}
	if r.DueDate.Set {
		t.DueDate = r.DueDate.Value
	}
	if r.Status != nil {
		t.Status = *r.Status
	}
	return t
}

type ListFilter struct {
	Statuses []Status
	Account  string
}
