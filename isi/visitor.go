package isi

// NoOpVisitor implements Visitor with every method returning nil,
// intended to be embedded by validators that only care about a handful of
// instruction variants (grounded on original_source/data_model/src/visit.rs,
// whose default Visit impl recurses without acting). Embedding rather than
// generating thirty stub methods per validator keeps each validator's
// file down to the variants it actually inspects.
type NoOpVisitor struct{}

func (NoOpVisitor) VisitRegisterPeer(*RegisterPeer) error                       { return nil }
func (NoOpVisitor) VisitUnregisterPeer(*UnregisterPeer) error                   { return nil }
func (NoOpVisitor) VisitRegisterDomain(*RegisterDomain) error                   { return nil }
func (NoOpVisitor) VisitUnregisterDomain(*UnregisterDomain) error               { return nil }
func (NoOpVisitor) VisitRegisterAccount(*RegisterAccount) error                 { return nil }
func (NoOpVisitor) VisitUnregisterAccount(*UnregisterAccount) error             { return nil }
func (NoOpVisitor) VisitRegisterAssetDefinition(*RegisterAssetDefinition) error { return nil }
func (NoOpVisitor) VisitUnregisterAssetDefinition(*UnregisterAssetDefinition) error {
	return nil
}
func (NoOpVisitor) VisitRegisterAsset(*RegisterAsset) error               { return nil }
func (NoOpVisitor) VisitUnregisterAsset(*UnregisterAsset) error           { return nil }
func (NoOpVisitor) VisitRegisterRole(*RegisterRole) error                 { return nil }
func (NoOpVisitor) VisitUnregisterRole(*UnregisterRole) error             { return nil }
func (NoOpVisitor) VisitRegisterTrigger(*RegisterTrigger) error           { return nil }
func (NoOpVisitor) VisitUnregisterTrigger(*UnregisterTrigger) error       { return nil }
func (NoOpVisitor) VisitMintAsset(*MintAsset) error                       { return nil }
func (NoOpVisitor) VisitBurnAsset(*BurnAsset) error                       { return nil }
func (NoOpVisitor) VisitMintTriggerRepetitions(*MintTriggerRepetitions) error { return nil }
func (NoOpVisitor) VisitBurnTriggerRepetitions(*BurnTriggerRepetitions) error { return nil }
func (NoOpVisitor) VisitTransferAssetDefinition(*TransferAssetDefinition) error { return nil }
func (NoOpVisitor) VisitTransferNumericAsset(*TransferNumericAsset) error { return nil }
func (NoOpVisitor) VisitTransferStoreAsset(*TransferStoreAsset) error     { return nil }
func (NoOpVisitor) VisitTransferDomain(*TransferDomain) error             { return nil }
func (NoOpVisitor) VisitSetKeyValue(*SetKeyValue) error                  { return nil }
func (NoOpVisitor) VisitRemoveKeyValue(*RemoveKeyValue) error             { return nil }
func (NoOpVisitor) VisitGrantPermission(*GrantPermission) error           { return nil }
func (NoOpVisitor) VisitRevokePermission(*RevokePermission) error         { return nil }
func (NoOpVisitor) VisitGrantRole(*GrantRole) error                       { return nil }
func (NoOpVisitor) VisitRevokeRole(*RevokeRole) error                     { return nil }
func (NoOpVisitor) VisitGrantRolePermission(*GrantRolePermission) error   { return nil }
func (NoOpVisitor) VisitRevokeRolePermission(*RevokeRolePermission) error { return nil }
func (NoOpVisitor) VisitExecuteTrigger(*ExecuteTrigger) error             { return nil }
func (NoOpVisitor) VisitSetParameter(*SetParameter) error                 { return nil }
func (NoOpVisitor) VisitLog(*Log) error                                   { return nil }
func (NoOpVisitor) VisitUpgrade(*Upgrade) error                           { return nil }
func (NoOpVisitor) VisitCustomInstruction(*CustomInstruction) error       { return nil }
