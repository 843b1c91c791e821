package isi

import "github.com/irohad/iroha2/wsv"

// metadataTarget abstracts the five entity kinds that carry a *Metadata
// store, letting SetKeyValue/RemoveKeyValue share one implementation
// instead of five near-identical copies.
type metadataTarget interface {
	resolve(w *wsv.WSV) (*wsv.Metadata, wsv.DomainId, string, error)
}

type domainTarget struct{ Id wsv.DomainId }

func (t domainTarget) resolve(w *wsv.WSV) (*wsv.Metadata, wsv.DomainId, string, error) {
	d, err := w.Domain(t.Id)
	if err != nil {
		return nil, "", "Domain", err
	}
	return d.Metadata, t.Id, "Domain", nil
}

type accountTarget struct{ Id wsv.AccountId }

func (t accountTarget) resolve(w *wsv.WSV) (*wsv.Metadata, wsv.DomainId, string, error) {
	a, err := w.Account(t.Id)
	if err != nil {
		return nil, "", "Account", err
	}
	return a.Metadata, t.Id.Domain, "Account", nil
}

type assetDefinitionTarget struct{ Id wsv.AssetDefinitionId }

func (t assetDefinitionTarget) resolve(w *wsv.WSV) (*wsv.Metadata, wsv.DomainId, string, error) {
	d, err := w.AssetDefinition(t.Id)
	if err != nil {
		return nil, "", "AssetDefinition", err
	}
	return d.Metadata, t.Id.Domain, "AssetDefinition", nil
}

type assetTarget struct{ Id wsv.AssetId }

func (t assetTarget) resolve(w *wsv.WSV) (*wsv.Metadata, wsv.DomainId, string, error) {
	a, err := w.Asset(t.Id)
	if err != nil {
		return nil, "", "Asset", err
	}
	if a.Value.Kind != wsv.AssetValueStore {
		return nil, "", "Asset", &wsv.TypeError{Expected: "store", Actual: "numeric"}
	}
	return a.Value.Store, t.Id.Account.Domain, "Asset", nil
}

type triggerTarget struct{ Id wsv.TriggerId }

func (t triggerTarget) resolve(w *wsv.WSV) (*wsv.Metadata, wsv.DomainId, string, error) {
	tr, err := w.Trigger(t.Id)
	if err != nil {
		return nil, "", "Trigger", err
	}
	return tr.Action.Metadata, tr.Action.Authority.Domain, "Trigger", nil
}

// SetKeyValue sets one metadata key on Domain/Account/AssetDefinition/
// Asset/Trigger, enforcing the chain-wide metadata limits (spec §4.E).
type SetKeyValue struct {
	Target metadataTarget
	Key    string
	Value  interface{}
}

func NewSetKeyValueDomain(id wsv.DomainId, key string, value interface{}) *SetKeyValue {
	return &SetKeyValue{Target: domainTarget{id}, Key: key, Value: value}
}
func NewSetKeyValueAccount(id wsv.AccountId, key string, value interface{}) *SetKeyValue {
	return &SetKeyValue{Target: accountTarget{id}, Key: key, Value: value}
}
func NewSetKeyValueAssetDefinition(id wsv.AssetDefinitionId, key string, value interface{}) *SetKeyValue {
	return &SetKeyValue{Target: assetDefinitionTarget{id}, Key: key, Value: value}
}
func NewSetKeyValueAsset(id wsv.AssetId, key string, value interface{}) *SetKeyValue {
	return &SetKeyValue{Target: assetTarget{id}, Key: key, Value: value}
}
func NewSetKeyValueTrigger(id wsv.TriggerId, key string, value interface{}) *SetKeyValue {
	return &SetKeyValue{Target: triggerTarget{id}, Key: key, Value: value}
}

func (i *SetKeyValue) String() string        { return "SetKeyValue" }
func (i *SetKeyValue) Accept(v Visitor) error { return v.VisitSetKeyValue(i) }
func (i *SetKeyValue) Execute(ctx ExecutionContext, w *wsv.WSV) error {
	md, domain, entity, err := i.Target.resolve(w)
	if err != nil {
		return wrapErr(i.String(), err)
	}
	if err := md.Set(i.Key, i.Value, w.Parameters.MetadataLimits); err != nil {
		return wrapErr(i.String(), err)
	}
	w.Publish(wsv.Event{Kind: wsv.EventMetadataSet, Domain: domain, Entity: entity, Detail: i.Key})
	return nil
}

// RemoveKeyValue removes one metadata key.
type RemoveKeyValue struct {
	Target metadataTarget
	Key    string
}

func NewRemoveKeyValueDomain(id wsv.DomainId, key string) *RemoveKeyValue {
	return &RemoveKeyValue{Target: domainTarget{id}, Key: key}
}
func NewRemoveKeyValueAccount(id wsv.AccountId, key string) *RemoveKeyValue {
	return &RemoveKeyValue{Target: accountTarget{id}, Key: key}
}
func NewRemoveKeyValueAssetDefinition(id wsv.AssetDefinitionId, key string) *RemoveKeyValue {
	return &RemoveKeyValue{Target: assetDefinitionTarget{id}, Key: key}
}
func NewRemoveKeyValueAsset(id wsv.AssetId, key string) *RemoveKeyValue {
	return &RemoveKeyValue{Target: assetTarget{id}, Key: key}
}
func NewRemoveKeyValueTrigger(id wsv.TriggerId, key string) *RemoveKeyValue {
	return &RemoveKeyValue{Target: triggerTarget{id}, Key: key}
}

func (i *RemoveKeyValue) String() string        { return "RemoveKeyValue" }
func (i *RemoveKeyValue) Accept(v Visitor) error { return v.VisitRemoveKeyValue(i) }
func (i *RemoveKeyValue) Execute(ctx ExecutionContext, w *wsv.WSV) error {
	md, domain, entity, err := i.Target.resolve(w)
	if err != nil {
		return wrapErr(i.String(), err)
	}
	if err := md.Remove(i.Key); err != nil {
		return wrapErr(i.String(), err)
	}
	w.Publish(wsv.Event{Kind: wsv.EventMetadataRemoved, Domain: domain, Entity: entity, Detail: i.Key})
	return nil
}
