package assignment

import "fmt"

// NoCandidateError signals that a role had zero eligible candidates. The
// orchestrator recovers by skipping the role; the run never fails for it.
type NoCandidateError struct {
	RoleID   string
	RoleName string
}

func (e *NoCandidateError) Error() string {
	return fmt.Sprintf("no eligible candidates for role %s (%s)", e.RoleID, e.RoleName)
}

// GroupError signals that one agent's whole partition evaluation failed
// (timeout or panic). The group is excluded from the decision; the remaining
// groups still produce a winner.
type GroupError struct {
	AgentID string
	RoleID  string
	Cause   error
}

func (e *GroupError) Error() string {
	return fmt.Sprintf("agent %s failed evaluating role %s: %v", e.AgentID, e.RoleID, e.Cause)
}

func (e *GroupError) Unwrap() error {
	return e.Cause
}
