package auth

// Operation enumerates the actions the guard decides on.
type Operation string

const (
	OpRead   Operation = "read"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// DenyReason tags why a decision denied access. The tag is for the caller
// and for logs; client-facing messages stay generic.
type DenyReason string

const (
	ReasonNone     DenyReason = ""
	ReasonNotOwner DenyReason = "not_owner"
)

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

// Allow is the positive decision.
var Allow = Decision{Allowed: true}

// Deny produces a negative decision with the given reason.
func Deny(reason DenyReason) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Authorize applies the single ownership rule used across every owned
// resource: admins may do anything, everyone else only touches what they
// own. Pure function of its inputs; existence of the resource is the
// caller's concern and must be settled before asking the guard.
func Authorize(identity Identity, resourceOwnerID int64, op Operation) Decision {
	if identity.IsAdmin() {
		return Allow
	}
	if op == OpCreate {
		// creation always writes the caller's own id as owner
		return Allow
	}
	if identity.SubjectID == resourceOwnerID {
		return Allow
	}
	return Deny(ReasonNotOwner)
}
