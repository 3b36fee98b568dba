// Package model defines the domain types shared across the devflow core:
// issues, classifications, branch plans, projects, milestones, and
// cross-repository workflow definitions.
package model

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// RepoRef identifies a repository by owner and name.
type RepoRef struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// FullName returns "owner/name".
func (r RepoRef) FullName() string {
	return r.Owner + "/" + r.Name
}

// ParseRepoRef parses an "owner/name" string into a RepoRef.
// Returns a zero RepoRef if the string is malformed.
func ParseRepoRef(s string) RepoRef {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return RepoRef{}
	}
	return RepoRef{Owner: parts[0], Name: parts[1]}
}

// UnmarshalYAML accepts either the "owner/name" scalar form used in
// workflow files or an owner/name mapping.
func (r *RepoRef) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		parsed := ParseRepoRef(value.Value)
		if parsed.IsZero() {
			return fmt.Errorf("invalid repository %q, expected owner/name", value.Value)
		}
		*r = parsed
		return nil
	}
	type plain RepoRef
	var v plain
	if err := value.Decode(&v); err != nil {
		return err
	}
	*r = RepoRef(v)
	return nil
}

// IsZero reports whether the ref is unset.
func (r RepoRef) IsZero() bool {
	return r.Owner == "" || r.Name == ""
}

// Issue is a read-only snapshot of a platform issue taken at the start
// of a processing pass. The platform owns the authoritative record.
type Issue struct {
	ID     int64    `json:"id"`
	Number int      `json:"number"`
	Repo   RepoRef  `json:"repo"`
	Title  string   `json:"title"`
	Body   string   `json:"body"`
	Labels []string `json:"labels"`
	State  string   `json:"state"`
}

// HasLabel reports whether the issue carries the given label,
// case-insensitively.
func (i Issue) HasLabel(name string) bool {
	for _, l := range i.Labels {
		if strings.EqualFold(l, name) {
			return true
		}
	}
	return false
}

// Issue state constants
const (
	StateOpen   = "open"
	StateClosed = "closed"
)
