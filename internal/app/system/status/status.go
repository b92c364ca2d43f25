// Package status defines the role and lifecycle-status vocabularies shared
// by the stores, handlers, and middleware, plus the assignment transition
// table consulted before every status write.
package status

// User account statuses.
const (
	Active   = "active"
	Disabled = "disabled"
)

// IsValid reports whether s is a recognized account status.
func IsValid(s string) bool {
	return s == Active || s == Disabled
}

// Roles. Fixed at registration; stored and served uppercase to match the
// platform's wire contract.
const (
	RoleDonor     = "DONOR"
	RoleNGO       = "NGO"
	RoleVolunteer = "VOLUNTEER"
	RoleAdmin     = "ADMIN"
)

// IsValidRole reports whether r is a recognized role.
func IsValidRole(r string) bool {
	switch r {
	case RoleDonor, RoleNGO, RoleVolunteer, RoleAdmin:
		return true
	}
	return false
}

// Donation lifecycle statuses. AVAILABLE is initial; DELIVERED is terminal.
const (
	DonationAvailable = "AVAILABLE"
	DonationClaimed   = "CLAIMED"
	DonationDelivered = "DELIVERED"
)

// Assignment lifecycle statuses. PENDING is initial; COMPLETED is terminal.
const (
	AssignmentPending    = "PENDING"
	AssignmentInProgress = "IN_PROGRESS"
	AssignmentCompleted  = "COMPLETED"
)

// IsValidAssignmentStatus reports whether s is a recognized assignment status.
func IsValidAssignmentStatus(s string) bool {
	switch s {
	case AssignmentPending, AssignmentInProgress, AssignmentCompleted:
		return true
	}
	return false
}

// assignmentPrev maps each assignment status to its single legal
// predecessor. PENDING has none: it is only ever set at creation.
var assignmentPrev = map[string]string{
	AssignmentInProgress: AssignmentPending,
	AssignmentCompleted:  AssignmentInProgress,
}

// AssignmentPredecessor returns the only status an assignment may hold
// immediately before moving to next. ok is false when next is not a legal
// target of any transition (PENDING, or an unknown status).
func AssignmentPredecessor(next string) (prev string, ok bool) {
	prev, ok = assignmentPrev[next]
	return prev, ok
}

// CanTransitionAssignment reports whether from → to is the single legal
// step in the assignment lifecycle.
func CanTransitionAssignment(from, to string) bool {
	prev, ok := assignmentPrev[to]
	return ok && prev == from
}
