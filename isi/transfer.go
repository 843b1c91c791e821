package isi

import "github.com/irohad/iroha2/wsv"

// TransferAssetDefinition reassigns ownership of an asset definition,
// emitting OwnerChanged (spec §4.E).
type TransferAssetDefinition struct {
	Id   wsv.AssetDefinitionId
	From wsv.AccountId
	To   wsv.AccountId
}

func (i *TransferAssetDefinition) String() string        { return "Transfer<AssetDefinition>" }
func (i *TransferAssetDefinition) Accept(v Visitor) error { return v.VisitTransferAssetDefinition(i) }
func (i *TransferAssetDefinition) Execute(ctx ExecutionContext, w *wsv.WSV) error {
	def, err := w.AssetDefinition(i.Id)
	if err != nil {
		return wrapErr(i.String(), err)
	}
	def.Owner = i.To
	w.Publish(wsv.Event{Kind: wsv.EventOwnerChanged, Domain: i.Id.Domain, Entity: "AssetDefinition", EntityId: i.Id})
	return nil
}

// TransferNumericAsset moves a numeric quantity from one account's balance
// to another's, purging the source if it reaches zero and registering the
// destination's holding implicitly if it did not already exist.
type TransferNumericAsset struct {
	Definition wsv.AssetDefinitionId
	From       wsv.AccountId
	To         wsv.AccountId
	Value      wsv.Numeric
}

func (i *TransferNumericAsset) String() string        { return "Transfer<Asset,Numeric>" }
func (i *TransferNumericAsset) Accept(v Visitor) error { return v.VisitTransferNumericAsset(i) }
func (i *TransferNumericAsset) Execute(ctx ExecutionContext, w *wsv.WSV) error {
	def, err := w.AssetDefinition(i.Definition)
	if err != nil {
		return wrapErr(i.String(), err)
	}
	if err := def.CheckValue(i.Value); err != nil {
		return wrapErr(i.String(), err)
	}
	fromId := wsv.AssetId{Definition: i.Definition, Account: i.From}
	toId := wsv.AssetId{Definition: i.Definition, Account: i.To}

	fromAcc, err := w.Account(i.From)
	if err != nil {
		return wrapErr(i.String(), err)
	}
	toAcc, err := w.Account(i.To)
	if err != nil {
		return wrapErr(i.String(), err)
	}
	fromAsset, ok := fromAcc.Asset(fromId)
	if !ok {
		return wrapErr(i.String(), &wsv.FindError{Entity: "Asset", Id: fromId})
	}
	remainder, err := wsv.Sub(fromAsset.Value.Numeric, i.Value)
	if err != nil {
		return wrapErr(i.String(), err)
	}
	var newTotal wsv.Numeric
	if toAsset, ok := toAcc.Asset(toId); ok {
		newTotal, err = wsv.Add(toAsset.Value.Numeric, i.Value)
		if err != nil {
			return wrapErr(i.String(), err)
		}
	} else {
		newTotal = i.Value
	}

	fromAcc.PutAsset(&wsv.Asset{Id: fromId, Value: wsv.AssetValue{Kind: wsv.AssetValueNumeric, Numeric: remainder}})
	toAcc.PutAsset(&wsv.Asset{Id: toId, Value: wsv.AssetValue{Kind: wsv.AssetValueNumeric, Numeric: newTotal}})
	if remainder.IsZero() {
		w.UnindexAsset(fromId)
	}
	w.IndexAsset(toId)
	return nil
}

// TransferStoreAsset moves an entire key-value asset (its full Metadata
// store) from one account to another.
type TransferStoreAsset struct {
	Definition wsv.AssetDefinitionId
	From       wsv.AccountId
	To         wsv.AccountId
}

func (i *TransferStoreAsset) String() string        { return "Transfer<Asset,Store>" }
func (i *TransferStoreAsset) Accept(v Visitor) error { return v.VisitTransferStoreAsset(i) }
func (i *TransferStoreAsset) Execute(ctx ExecutionContext, w *wsv.WSV) error {
	fromId := wsv.AssetId{Definition: i.Definition, Account: i.From}
	toId := wsv.AssetId{Definition: i.Definition, Account: i.To}

	fromAcc, err := w.Account(i.From)
	if err != nil {
		return wrapErr(i.String(), err)
	}
	toAcc, err := w.Account(i.To)
	if err != nil {
		return wrapErr(i.String(), err)
	}
	asset, ok := fromAcc.Asset(fromId)
	if !ok {
		return wrapErr(i.String(), &wsv.FindError{Entity: "Asset", Id: fromId})
	}
	if asset.Value.Kind != wsv.AssetValueStore {
		return wrapErr(i.String(), &wsv.TypeError{Expected: "store", Actual: "numeric"})
	}
	delete(fromAcc.Assets, fromId)
	w.UnindexAsset(fromId)
	toAcc.Assets[toId] = &wsv.Asset{Id: toId, Value: asset.Value}
	w.IndexAsset(toId)
	return nil
}

// TransferDomain reassigns ownership of a domain.
type TransferDomain struct {
	Id   wsv.DomainId
	From wsv.AccountId
	To   wsv.AccountId
}

func (i *TransferDomain) String() string        { return "Transfer<Domain>" }
func (i *TransferDomain) Accept(v Visitor) error { return v.VisitTransferDomain(i) }
func (i *TransferDomain) Execute(ctx ExecutionContext, w *wsv.WSV) error {
	d, err := w.Domain(i.Id)
	if err != nil {
		return wrapErr(i.String(), err)
	}
	if d.Owner != i.From {
		return wrapErr(i.String(), &ValidationError{Reason: "transfer source is not the current owner"})
	}
	d.Owner = i.To
	w.Publish(wsv.Event{Kind: wsv.EventOwnerChanged, Domain: i.Id, Entity: "Domain", EntityId: i.Id})
	return nil
}
