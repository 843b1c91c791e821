package isi

import "github.com/irohad/iroha2/wsv"

// MintAsset increases a numeric asset's balance. Minting on a definition
// whose Mintability is Once transitions it to Not as a side effect, but
// only if value is non-zero — a zero mint on Once is a no-op that leaves
// mintability untouched (spec §4.E).
type MintAsset struct {
	Id    wsv.AssetId
	Value wsv.Numeric
}

func (i *MintAsset) String() string        { return "Mint<Asset>" }
func (i *MintAsset) Accept(v Visitor) error { return v.VisitMintAsset(i) }
func (i *MintAsset) Execute(ctx ExecutionContext, w *wsv.WSV) error {
	def, err := w.AssetDefinition(i.Id.Definition)
	if err != nil {
		return wrapErr(i.String(), err)
	}
	if def.Mintability == wsv.MintNot {
		return wrapErr(i.String(), &wsv.MintabilityError{Reason: "MintUnmintable"})
	}
	if err := def.CheckValue(i.Value); err != nil {
		return wrapErr(i.String(), err)
	}
	if i.Value.IsNegative() {
		return wrapErr(i.String(), wsv.ErrMath)
	}
	acc, err := w.Account(i.Id.Account)
	if err != nil {
		return wrapErr(i.String(), err)
	}
	current, ok := acc.Asset(i.Id)
	sum := i.Value
	if ok {
		sum, err = wsv.Add(current.Value.Numeric, i.Value)
		if err != nil {
			return wrapErr(i.String(), err)
		}
	}
	acc.PutAsset(&wsv.Asset{Id: i.Id, Value: wsv.AssetValue{Kind: wsv.AssetValueNumeric, Numeric: sum}})
	w.IndexAsset(i.Id)
	w.Publish(wsv.Event{Kind: wsv.EventAssetMinted, Domain: i.Id.Account.Domain, Entity: "Asset", EntityId: i.Id})

	if def.Mintability == wsv.MintOnce && !i.Value.IsZero() {
		def.Mintability = wsv.MintNot
		w.Publish(wsv.Event{Kind: wsv.EventMintabilityChanged, Domain: def.Id.Domain, Entity: "AssetDefinition", EntityId: def.Id})
	}
	return nil
}

// BurnAsset decreases a numeric asset's balance, purging the asset from
// the owner's map if the result is zero (spec §4.E "Burn to zero").
type BurnAsset struct {
	Id    wsv.AssetId
	Value wsv.Numeric
}

func (i *BurnAsset) String() string        { return "Burn<Asset>" }
func (i *BurnAsset) Accept(v Visitor) error { return v.VisitBurnAsset(i) }
func (i *BurnAsset) Execute(ctx ExecutionContext, w *wsv.WSV) error {
	def, err := w.AssetDefinition(i.Id.Definition)
	if err != nil {
		return wrapErr(i.String(), err)
	}
	if err := def.CheckValue(i.Value); err != nil {
		return wrapErr(i.String(), err)
	}
	acc, err := w.Account(i.Id.Account)
	if err != nil {
		return wrapErr(i.String(), err)
	}
	current, ok := acc.Asset(i.Id)
	if !ok {
		return wrapErr(i.String(), &wsv.FindError{Entity: "Asset", Id: i.Id})
	}
	remainder, err := wsv.Sub(current.Value.Numeric, i.Value)
	if err != nil {
		return wrapErr(i.String(), err)
	}
	acc.PutAsset(&wsv.Asset{Id: i.Id, Value: wsv.AssetValue{Kind: wsv.AssetValueNumeric, Numeric: remainder}})
	if remainder.IsZero() {
		w.UnindexAsset(i.Id)
	}
	w.Publish(wsv.Event{Kind: wsv.EventAssetBurned, Domain: i.Id.Account.Domain, Entity: "Asset", EntityId: i.Id})
	return nil
}

// MintTriggerRepetitions increases a trigger's remaining repeat count. A
// trigger configured with Repeats::Indefinitely ignores this (there is no
// counter to raise).
type MintTriggerRepetitions struct {
	Id    wsv.TriggerId
	Count uint32
}

func (i *MintTriggerRepetitions) String() string        { return "Mint<Trigger,u32>" }
func (i *MintTriggerRepetitions) Accept(v Visitor) error { return v.VisitMintTriggerRepetitions(i) }
func (i *MintTriggerRepetitions) Execute(ctx ExecutionContext, w *wsv.WSV) error {
	t, err := w.Trigger(i.Id)
	if err != nil {
		return wrapErr(i.String(), err)
	}
	if t.Action.Repeats.Indefinite {
		return nil
	}
	t.Action.Repeats.Count += i.Count
	return nil
}

// BurnTriggerRepetitions decreases a trigger's remaining repeat count,
// failing rather than wrapping below zero (spec §4.F).
type BurnTriggerRepetitions struct {
	Id    wsv.TriggerId
	Count uint32
}

func (i *BurnTriggerRepetitions) String() string        { return "Burn<Trigger,u32>" }
func (i *BurnTriggerRepetitions) Accept(v Visitor) error { return v.VisitBurnTriggerRepetitions(i) }
func (i *BurnTriggerRepetitions) Execute(ctx ExecutionContext, w *wsv.WSV) error {
	t, err := w.Trigger(i.Id)
	if err != nil {
		return wrapErr(i.String(), err)
	}
	if t.Action.Repeats.Indefinite {
		return nil
	}
	if t.Action.Repeats.Count < i.Count {
		return wrapErr(i.String(), wsv.ErrMath)
	}
	t.Action.Repeats.Count -= i.Count
	return nil
}
