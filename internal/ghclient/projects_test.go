package ghclient

import (
	"errors"
	"testing"
)

func TestFieldOptionID(t *testing.T) {
	field := Field{
		ID:   "F_status",
		Name: "Status",
		Options: []FieldOption{
			{ID: "O_1", Name: "Backlog"},
			{ID: "O_2", Name: "In Progress"},
		},
	}

	tests := []struct {
		name string
		want string
	}{
		{"Backlog", "O_1"},
		{"backlog", "O_1"},
		{"IN PROGRESS", "O_2"},
		{"Done", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := field.OptionID(tt.name); got != tt.want {
				t.Errorf("OptionID(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestMapGraphQLError(t *testing.T) {
	tests := []struct {
		name string
		err  graphqlError
		want error
	}{
		{"rate limited", graphqlError{Type: "RATE_LIMITED", Message: "API rate limit exceeded"}, ErrRateLimited},
		{"not found", graphqlError{Type: "NOT_FOUND", Message: "Could not resolve"}, ErrNotFound},
		{"already exists", graphqlError{Message: "Project already exists"}, ErrAlreadyExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapGraphQLError(tt.err); !errors.Is(got, tt.want) {
				t.Errorf("mapGraphQLError(%+v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}

	generic := mapGraphQLError(graphqlError{Message: "something odd"})
	if errors.Is(generic, ErrRateLimited) || errors.Is(generic, ErrNotFound) || errors.Is(generic, ErrAlreadyExists) {
		t.Errorf("generic error should not map into the taxonomy: %v", generic)
	}
}
