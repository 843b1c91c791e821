package isi

import "github.com/irohad/iroha2/wsv"

// Instruction is the common interface of every ISI variant. Execute is
// atomic at instruction granularity: a failure aborts only the containing
// transaction (spec §4.E), never rolls back earlier instructions in the
// same transaction, and never aborts the surrounding block.
type Instruction interface {
	// Accept dispatches to the matching Visitor method; this is what makes
	// the executor's Pass/Deny/Skip dispatch structurally exhaustive over
	// ISI variants instead of relying on a type switch with a silent
	// default case (grounded on original_source/data_model/src/visit.rs).
	Accept(v Visitor) error
	// Execute performs the deterministic WSV mutation for this
	// instruction, assuming the executor has already approved it.
	Execute(ctx ExecutionContext, w *wsv.WSV) error
	// String names the instruction kind for error/event reporting.
	String() string
}

// InstructionList is an ordered sequence of instructions, the payload of a
// transaction or of a Trigger's inline Executable.
type InstructionList []Instruction

// Visitor lets the executor (or any other cross-cutting concern) handle
// every instruction variant without a type switch scattered across the
// codebase; each concrete Instruction's Accept method calls back exactly
// one of these.
type Visitor interface {
	VisitRegisterPeer(*RegisterPeer) error
	VisitUnregisterPeer(*UnregisterPeer) error
	VisitRegisterDomain(*RegisterDomain) error
	VisitUnregisterDomain(*UnregisterDomain) error
	VisitRegisterAccount(*RegisterAccount) error
	VisitUnregisterAccount(*UnregisterAccount) error
	VisitRegisterAssetDefinition(*RegisterAssetDefinition) error
	VisitUnregisterAssetDefinition(*UnregisterAssetDefinition) error
	VisitRegisterAsset(*RegisterAsset) error
	VisitUnregisterAsset(*UnregisterAsset) error
	VisitRegisterRole(*RegisterRole) error
	VisitUnregisterRole(*UnregisterRole) error
	VisitRegisterTrigger(*RegisterTrigger) error
	VisitUnregisterTrigger(*UnregisterTrigger) error
	VisitMintAsset(*MintAsset) error
	VisitBurnAsset(*BurnAsset) error
	VisitMintTriggerRepetitions(*MintTriggerRepetitions) error
	VisitBurnTriggerRepetitions(*BurnTriggerRepetitions) error
	VisitTransferAssetDefinition(*TransferAssetDefinition) error
	VisitTransferNumericAsset(*TransferNumericAsset) error
	VisitTransferStoreAsset(*TransferStoreAsset) error
	VisitTransferDomain(*TransferDomain) error
	VisitSetKeyValue(*SetKeyValue) error
	VisitRemoveKeyValue(*RemoveKeyValue) error
	VisitGrantPermission(*GrantPermission) error
	VisitRevokePermission(*RevokePermission) error
	VisitGrantRole(*GrantRole) error
	VisitRevokeRole(*RevokeRole) error
	VisitGrantRolePermission(*GrantRolePermission) error
	VisitRevokeRolePermission(*RevokeRolePermission) error
	VisitExecuteTrigger(*ExecuteTrigger) error
	VisitSetParameter(*SetParameter) error
	VisitLog(*Log) error
	VisitUpgrade(*Upgrade) error
	VisitCustomInstruction(*CustomInstruction) error
}
