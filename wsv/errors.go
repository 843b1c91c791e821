package wsv

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNotFound is wrapped by every "Find" failure in this package (spec §7
// Find kind): missing Asset, AssetDefinition, Account, Domain, MetadataKey,
// Role, PermissionToken, Trigger. Callers distinguish the entity via the
// wrapping message or, where needed, a typed *FindError below.
var ErrNotFound = errors.New("wsv: not found")

// ErrAlreadyExists is wrapped by every "Repetition" failure (spec §7
// Repetition kind): registering an entity id that already exists.
var ErrAlreadyExists = errors.New("wsv: already exists")

// FindError carries the entity kind and id of a failed lookup, matching
// spec §7's requirement that error kinds carry structured details rather
// than bare strings.
type FindError struct {
	Entity string
	Id     fmt.Stringer
}

func (e *FindError) Error() string { return "wsv: find " + e.Entity + " " + e.Id.String() }

func (e *FindError) Unwrap() error { return ErrNotFound }

// RepetitionError carries the failing instruction kind and the id that
// already existed.
type RepetitionError struct {
	Instruction string
	Entity      string
	Id          fmt.Stringer
}

func (e *RepetitionError) Error() string {
	return "wsv: repetition " + e.Instruction + " " + e.Entity + " " + e.Id.String()
}

func (e *RepetitionError) Unwrap() error { return ErrAlreadyExists }

// InvariantViolationError reports a must-not-happen guard failure, e.g.
// removing an account's last signatory.
type InvariantViolationError struct {
	Reason string
}

func (e *InvariantViolationError) Error() string { return "wsv: invariant violation: " + e.Reason }
