package isi

import (
	"strings"

	"github.com/irohad/iroha2/internal/log"
	"github.com/irohad/iroha2/wsv"
)

var logger = log.NewModuleLogger(log.ModuleISI)

// Verdict is the result of one permission check (spec §4.E): the first
// non-Skip decision in a validator chain stands.
type Verdict int

const (
	VerdictSkip Verdict = iota
	VerdictPass
	VerdictDeny
)

// Judgement pairs a Verdict with the Deny reason, if any.
type Judgement struct {
	Verdict Verdict
	Reason  string
}

func Pass() Judgement           { return Judgement{Verdict: VerdictPass} }
func Skip() Judgement           { return Judgement{Verdict: VerdictSkip} }
func Deny(reason string) Judgement { return Judgement{Verdict: VerdictDeny, Reason: reason} }

// InstructionValidator is one link in the executor's validator chain. It
// receives the instruction, the acting authority, and a read-only view of
// WSV (validators must not mutate state — only Instruction.Execute does).
type InstructionValidator interface {
	Validate(authority wsv.AccountId, instr Instruction, w *wsv.WSV) Judgement
}

// InstructionValidatorFunc adapts a plain function to InstructionValidator.
type InstructionValidatorFunc func(wsv.AccountId, Instruction, *wsv.WSV) Judgement

func (f InstructionValidatorFunc) Validate(a wsv.AccountId, i Instruction, w *wsv.WSV) Judgement {
	return f(a, i, w)
}

// Executor is the pluggable permission/policy layer gating every
// instruction before Execute runs (spec §4.E). It is "identified by a
// permission-token schema" in the Rust original; here that schema is just
// the ordered chain of InstructionValidators plus the GrantRevokeRules
// below, which is the part of the schema with actual cross-cutting
// decision logic.
type Executor struct {
	chain      []InstructionValidator
	grantRules map[wsv.PermissionId]GrantRevokeRule
}

// NewExecutor returns an executor with no validators registered; every
// instruction passes by default until rules are added (Use) or the chain is
// replaced (Executor.Upgrade), matching a from-genesis bootstrap before any
// permission rules exist.
func NewExecutor() *Executor {
	return &Executor{grantRules: make(map[wsv.PermissionId]GrantRevokeRule)}
}

// Use appends a validator to the chain. Order matters: the first
// non-Skip verdict wins.
func (e *Executor) Use(v InstructionValidator) { e.chain = append(e.chain, v) }

// GrantRevokeRule further restricts who may Grant or Revoke a specific
// permission token kind beyond the generic chain (spec §4.E: "Grant/Revoke
// instructions are further validated by a token-specific rule, e.g.
// CanTransferUserAsset may be granted only by the owner of the referenced
// asset").
type GrantRevokeRule func(grantor wsv.AccountId, target wsv.AccountId, perm wsv.Permission, w *wsv.WSV) Judgement

// RegisterGrantRule installs a token-specific rule for perm.Id.
func (e *Executor) RegisterGrantRule(id wsv.PermissionId, rule GrantRevokeRule) {
	e.grantRules[id] = rule
}

// Validate runs instr through the validator chain, then (for
// Grant/RevokePermission) through any registered token-specific rule.
// Chain validators default to Pass when none match (an empty chain always
// passes), since the schema of "what is denied" is entirely a function of
// what rules were installed — a node with no executor configured behaves
// permissively, matching genesis bootstrap before any permission rules
// exist.
func (e *Executor) Validate(authority wsv.AccountId, instr Instruction, w *wsv.WSV) Judgement {
	verdict := Judgement{Verdict: VerdictPass}
	for _, v := range e.chain {
		j := v.Validate(authority, instr, w)
		if j.Verdict != VerdictSkip {
			verdict = j
			break
		}
	}
	if verdict.Verdict == VerdictDeny {
		return verdict
	}

	if grant, ok := instr.(*GrantPermission); ok {
		if rule, ok := e.grantRules[grant.Permission.Id]; ok {
			if j := rule(authority, grant.Account, grant.Permission, w); j.Verdict == VerdictDeny {
				return j
			}
		}
	}
	if revoke, ok := instr.(*RevokePermission); ok {
		if rule, ok := e.grantRules[revoke.Permission.Id]; ok {
			if j := rule(authority, revoke.Account, revoke.Permission, w); j.Verdict == VerdictDeny {
				return j
			}
		}
	}
	return verdict
}

// Upgrade swaps this executor's validator chain wholesale, implementing
// the Upgrade instruction's effect (spec §4.E). WASM-blob interpretation
// that would produce a new chain dynamically is outside this package's
// scope (the sandbox boundary, spec §1); callers pass in an
// already-decoded replacement.
func (e *Executor) Upgrade(chain []InstructionValidator) {
	e.chain = chain
}

// CanTransferUserAssetRule grounds spec §4.E's example token-specific
// rule: CanTransferUserAsset may be granted only by the account that owns
// the referenced asset definition's asset, i.e. the asset's current
// holder account named in the permission payload must equal the grantor.
// Payload format here is simply the asset id's string form, matching how
// original_source's permissions_validators encode the object id inline in
// the permission payload.
func CanTransferUserAssetRule(grantor, _ wsv.AccountId, perm wsv.Permission, w *wsv.WSV) Judgement {
	// "name#domain#signatory@domain": the holder account follows the
	// definition's two '#'-separated parts.
	parts := strings.SplitN(perm.Payload, "#", 3)
	if len(parts) != 3 || parts[2] != grantor.String() {
		return Deny("CanTransferUserAsset may only be granted by the asset's owning account")
	}
	return Pass()
}
