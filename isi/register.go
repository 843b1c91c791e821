package isi

import "github.com/irohad/iroha2/wsv"

// RegisterPeer adds a peer to the consensus topology's candidate set.
type RegisterPeer struct{ Peer wsv.PeerId }

func (i *RegisterPeer) String() string           { return "Register<Peer>" }
func (i *RegisterPeer) Accept(v Visitor) error    { return v.VisitRegisterPeer(i) }
func (i *RegisterPeer) Execute(ctx ExecutionContext, w *wsv.WSV) error {
	if _, ok := w.Peers[i.Peer]; ok {
		return wrapErr(i.String(), &wsv.RepetitionError{Instruction: i.String(), Entity: "Peer", Id: i.Peer})
	}
	w.Peers[i.Peer] = struct{}{}
	return nil
}

// UnregisterPeer removes a peer from the topology.
type UnregisterPeer struct{ Peer wsv.PeerId }

func (i *UnregisterPeer) String() string        { return "Unregister<Peer>" }
func (i *UnregisterPeer) Accept(v Visitor) error { return v.VisitUnregisterPeer(i) }
func (i *UnregisterPeer) Execute(ctx ExecutionContext, w *wsv.WSV) error {
	if _, ok := w.Peers[i.Peer]; !ok {
		return wrapErr(i.String(), &wsv.FindError{Entity: "Peer", Id: i.Peer})
	}
	delete(w.Peers, i.Peer)
	return nil
}

// RegisterDomain creates a new, empty domain owned by Owner.
type RegisterDomain struct {
	Id    wsv.DomainId
	Owner wsv.AccountId
}

func (i *RegisterDomain) String() string        { return "Register<Domain>" }
func (i *RegisterDomain) Accept(v Visitor) error { return v.VisitRegisterDomain(i) }
func (i *RegisterDomain) Execute(ctx ExecutionContext, w *wsv.WSV) error {
	if _, ok := w.Domains[i.Id]; ok {
		return wrapErr(i.String(), &wsv.RepetitionError{Instruction: i.String(), Entity: "Domain", Id: i.Id})
	}
	w.Domains[i.Id] = wsv.NewDomain(i.Id, i.Owner)
	w.Publish(wsv.Event{Kind: wsv.EventRegistered, Domain: i.Id, Entity: "Domain", EntityId: i.Id})
	return nil
}

// UnregisterDomain removes a domain and everything it owns.
type UnregisterDomain struct{ Id wsv.DomainId }

func (i *UnregisterDomain) String() string        { return "Unregister<Domain>" }
func (i *UnregisterDomain) Accept(v Visitor) error { return v.VisitUnregisterDomain(i) }
func (i *UnregisterDomain) Execute(ctx ExecutionContext, w *wsv.WSV) error {
	d, err := w.Domain(i.Id)
	if err != nil {
		return wrapErr(i.String(), err)
	}
	for accId := range d.Accounts {
		for assetId := range d.Accounts[accId].Assets {
			w.UnindexAsset(assetId)
		}
		w.UnindexAccount(accId)
	}
	delete(w.Domains, i.Id)
	w.Publish(wsv.Event{Kind: wsv.EventUnregistered, Domain: i.Id, Entity: "Domain", EntityId: i.Id})
	return nil
}

// RegisterAccount creates a new account in an existing domain with a
// single initial signatory.
type RegisterAccount struct {
	Id        wsv.AccountId
	Signatory wsv.PublicKey
}

func (i *RegisterAccount) String() string        { return "Register<Account>" }
func (i *RegisterAccount) Accept(v Visitor) error { return v.VisitRegisterAccount(i) }
func (i *RegisterAccount) Execute(ctx ExecutionContext, w *wsv.WSV) error {
	d, err := w.Domain(i.Id.Domain)
	if err != nil {
		return wrapErr(i.String(), err)
	}
	if _, ok := d.Accounts[i.Id]; ok {
		return wrapErr(i.String(), &wsv.RepetitionError{Instruction: i.String(), Entity: "Account", Id: i.Id})
	}
	d.Accounts[i.Id] = wsv.NewAccount(i.Id, i.Signatory)
	w.IndexAccount(i.Id)
	w.Publish(wsv.Event{Kind: wsv.EventRegistered, Domain: i.Id.Domain, Entity: "Account", EntityId: i.Id})
	return nil
}

// UnregisterAccount removes an account from its domain.
type UnregisterAccount struct{ Id wsv.AccountId }

func (i *UnregisterAccount) String() string        { return "Unregister<Account>" }
func (i *UnregisterAccount) Accept(v Visitor) error { return v.VisitUnregisterAccount(i) }
func (i *UnregisterAccount) Execute(ctx ExecutionContext, w *wsv.WSV) error {
	d, err := w.Domain(i.Id.Domain)
	if err != nil {
		return wrapErr(i.String(), err)
	}
	acc, ok := d.Accounts[i.Id]
	if !ok {
		return wrapErr(i.String(), &wsv.FindError{Entity: "Account", Id: i.Id})
	}
	for assetId := range acc.Assets {
		w.UnindexAsset(assetId)
	}
	delete(d.Accounts, i.Id)
	w.UnindexAccount(i.Id)
	w.Publish(wsv.Event{Kind: wsv.EventUnregistered, Domain: i.Id.Domain, Entity: "Account", EntityId: i.Id})
	return nil
}

// RegisterAssetDefinition declares a new asset kind within a domain.
type RegisterAssetDefinition struct {
	Id          wsv.AssetDefinitionId
	ValueKind   wsv.AssetValueKind
	NumericSpec wsv.NumericSpec
	Mintability wsv.Mintability
	Owner       wsv.AccountId
}

func (i *RegisterAssetDefinition) String() string        { return "Register<AssetDefinition>" }
func (i *RegisterAssetDefinition) Accept(v Visitor) error { return v.VisitRegisterAssetDefinition(i) }
func (i *RegisterAssetDefinition) Execute(ctx ExecutionContext, w *wsv.WSV) error {
	d, err := w.Domain(i.Id.Domain)
	if err != nil {
		return wrapErr(i.String(), err)
	}
	if _, ok := d.AssetDefinitions[i.Id]; ok {
		return wrapErr(i.String(), &wsv.RepetitionError{Instruction: i.String(), Entity: "AssetDefinition", Id: i.Id})
	}
	d.AssetDefinitions[i.Id] = &wsv.AssetDefinition{
		Id:          i.Id,
		ValueKind:   i.ValueKind,
		NumericSpec: i.NumericSpec,
		Mintability: i.Mintability,
		Owner:       i.Owner,
		Metadata:    wsv.NewMetadata(),
	}
	w.Publish(wsv.Event{Kind: wsv.EventRegistered, Domain: i.Id.Domain, Entity: "AssetDefinition", EntityId: i.Id})
	return nil
}

// UnregisterAssetDefinition removes an asset kind declaration.
type UnregisterAssetDefinition struct{ Id wsv.AssetDefinitionId }

func (i *UnregisterAssetDefinition) String() string        { return "Unregister<AssetDefinition>" }
func (i *UnregisterAssetDefinition) Accept(v Visitor) error { return v.VisitUnregisterAssetDefinition(i) }
func (i *UnregisterAssetDefinition) Execute(ctx ExecutionContext, w *wsv.WSV) error {
	d, err := w.Domain(i.Id.Domain)
	if err != nil {
		return wrapErr(i.String(), err)
	}
	if _, ok := d.AssetDefinitions[i.Id]; !ok {
		return wrapErr(i.String(), &wsv.FindError{Entity: "AssetDefinition", Id: i.Id})
	}
	delete(d.AssetDefinitions, i.Id)
	w.Publish(wsv.Event{Kind: wsv.EventUnregistered, Domain: i.Id.Domain, Entity: "AssetDefinition", EntityId: i.Id})
	return nil
}

// RegisterAsset creates a new asset balance (possibly zero) for an
// account. Registering an asset the account already holds is a
// Repetition error (spec §4.E).
type RegisterAsset struct {
	Id    wsv.AssetId
	Value wsv.Numeric
}

func (i *RegisterAsset) String() string        { return "Register<Asset>" }
func (i *RegisterAsset) Accept(v Visitor) error { return v.VisitRegisterAsset(i) }
func (i *RegisterAsset) Execute(ctx ExecutionContext, w *wsv.WSV) error {
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
	if _, ok := acc.Asset(i.Id); ok {
		return wrapErr(i.String(), &wsv.RepetitionError{Instruction: i.String(), Entity: "Asset", Id: i.Id})
	}
	acc.Assets[i.Id] = &wsv.Asset{Id: i.Id, Value: wsv.AssetValue{Kind: wsv.AssetValueNumeric, Numeric: i.Value}}
	w.IndexAsset(i.Id)
	w.Publish(wsv.Event{Kind: wsv.EventRegistered, Domain: i.Id.Account.Domain, Entity: "Asset", EntityId: i.Id})
	return nil
}

// UnregisterAsset removes an asset balance outright, regardless of value.
type UnregisterAsset struct{ Id wsv.AssetId }

func (i *UnregisterAsset) String() string        { return "Unregister<Asset>" }
func (i *UnregisterAsset) Accept(v Visitor) error { return v.VisitUnregisterAsset(i) }
func (i *UnregisterAsset) Execute(ctx ExecutionContext, w *wsv.WSV) error {
	acc, err := w.Account(i.Id.Account)
	if err != nil {
		return wrapErr(i.String(), err)
	}
	if _, ok := acc.Asset(i.Id); !ok {
		return wrapErr(i.String(), &wsv.FindError{Entity: "Asset", Id: i.Id})
	}
	delete(acc.Assets, i.Id)
	w.UnindexAsset(i.Id)
	w.Publish(wsv.Event{Kind: wsv.EventUnregistered, Domain: i.Id.Account.Domain, Entity: "Asset", EntityId: i.Id})
	return nil
}

// RegisterRole creates a new named permission bundle.
type RegisterRole struct {
	Id          wsv.RoleId
	Permissions []wsv.Permission
}

func (i *RegisterRole) String() string        { return "Register<Role>" }
func (i *RegisterRole) Accept(v Visitor) error { return v.VisitRegisterRole(i) }
func (i *RegisterRole) Execute(ctx ExecutionContext, w *wsv.WSV) error {
	if _, ok := w.Roles[i.Id]; ok {
		return wrapErr(i.String(), &wsv.RepetitionError{Instruction: i.String(), Entity: "Role", Id: i.Id})
	}
	w.Roles[i.Id] = &wsv.Role{Id: i.Id, Permissions: append([]wsv.Permission(nil), i.Permissions...)}
	return nil
}

// UnregisterRole removes a role's definition so no further Grant can
// reference it. Accounts that had it granted are not touched: their Roles
// set, the permissions copied in by GrantRole, and the rolesByAccount index
// entry all stay as they were.
type UnregisterRole struct{ Id wsv.RoleId }

func (i *UnregisterRole) String() string        { return "Unregister<Role>" }
func (i *UnregisterRole) Accept(v Visitor) error { return v.VisitUnregisterRole(i) }
func (i *UnregisterRole) Execute(ctx ExecutionContext, w *wsv.WSV) error {
	if _, ok := w.Roles[i.Id]; !ok {
		return wrapErr(i.String(), &wsv.FindError{Entity: "Role", Id: i.Id})
	}
	delete(w.Roles, i.Id)
	return nil
}

// RegisterTrigger stores a new trigger in its exhausted/active form per
// its initial Repeats.
type RegisterTrigger struct {
	Id     wsv.TriggerId
	Action wsv.Action
}

func (i *RegisterTrigger) String() string        { return "Register<Trigger>" }
func (i *RegisterTrigger) Accept(v Visitor) error { return v.VisitRegisterTrigger(i) }
func (i *RegisterTrigger) Execute(ctx ExecutionContext, w *wsv.WSV) error {
	if _, ok := w.Triggers[i.Id]; ok {
		return wrapErr(i.String(), &wsv.RepetitionError{Instruction: i.String(), Entity: "Trigger", Id: i.Id})
	}
	w.Triggers[i.Id] = &wsv.Trigger{Id: i.Id, Action: i.Action}
	w.IndexTrigger(i.Action.Authority.Domain, i.Id)
	w.Publish(wsv.Event{Kind: wsv.EventRegistered, Domain: i.Action.Authority.Domain, Entity: "Trigger", EntityId: i.Id})
	return nil
}

// UnregisterTrigger removes a trigger. A WASM executable's underlying blob
// is only released from the shared store when its reference count drops
// to zero (spec §4.F) — that bookkeeping lives in the trigger package's
// WasmStore, not here, since wsv/isi have no notion of "other triggers
// sharing a blob".
type UnregisterTrigger struct{ Id wsv.TriggerId }

func (i *UnregisterTrigger) String() string        { return "Unregister<Trigger>" }
func (i *UnregisterTrigger) Accept(v Visitor) error { return v.VisitUnregisterTrigger(i) }
func (i *UnregisterTrigger) Execute(ctx ExecutionContext, w *wsv.WSV) error {
	t, ok := w.Triggers[i.Id]
	if !ok {
		return wrapErr(i.String(), &wsv.FindError{Entity: "Trigger", Id: i.Id})
	}
	delete(w.Triggers, i.Id)
	w.UnindexTrigger(t.Action.Authority.Domain, i.Id)
	w.Publish(wsv.Event{Kind: wsv.EventUnregistered, Domain: t.Action.Authority.Domain, Entity: "Trigger", EntityId: i.Id})
	return nil
}
