package wsv

import "github.com/pkg/errors"

// Account holds one domain member's signatories, assets, metadata and
// directly-granted permissions/roles. The invariant that an account must
// retain at least one signatory (spec §3) is enforced by RemoveSignatory,
// never by the caller.
type Account struct {
	Id                 AccountId
	Signatories        map[PublicKey]struct{}
	SignatureCondition SignatureCondition
	Assets             map[AssetId]*Asset
	Metadata           *Metadata
	Permissions        map[Permission]struct{}
	Roles              map[RoleId]struct{}
}

// NewAccount returns an account owned by the given single signatory, with
// the default any-of-one signature condition.
func NewAccount(id AccountId, signatory PublicKey) *Account {
	return &Account{
		Id:                 id,
		Signatories:        map[PublicKey]struct{}{signatory: {}},
		SignatureCondition: AnyOf{},
		Assets:             make(map[AssetId]*Asset),
		Metadata:           NewMetadata(),
		Permissions:        make(map[Permission]struct{}),
		Roles:              make(map[RoleId]struct{}),
	}
}

// AddSignatory adds a public key to the signatory set; adding an existing
// key is a no-op.
func (a *Account) AddSignatory(key PublicKey) {
	a.Signatories[key] = struct{}{}
}

// RemoveSignatory removes a public key, refusing to drop the last
// signatory (spec §3 / §4.E "Burn of public key").
func (a *Account) RemoveSignatory(key PublicKey) error {
	if _, ok := a.Signatories[key]; !ok {
		return errors.Wrap(ErrNotFound, "signatory")
	}
	if len(a.Signatories) <= 1 {
		return &InvariantViolationError{Reason: "account must retain at least one signatory"}
	}
	delete(a.Signatories, key)
	return nil
}

// PutAsset inserts or replaces an asset in the account's map, purging it
// instead if the value is a zero numeric (spec §3 "Asset" invariant).
func (a *Account) PutAsset(asset *Asset) {
	if asset.Value.Kind == AssetValueNumeric && asset.Value.Numeric.IsZero() {
		delete(a.Assets, asset.Id)
		return
	}
	a.Assets[asset.Id] = asset
}

// Asset looks up an owned asset by id.
func (a *Account) Asset(id AssetId) (*Asset, bool) {
	v, ok := a.Assets[id]
	return v, ok
}

// HasRole reports whether role has been granted to this account.
func (a *Account) HasRole(role RoleId) bool {
	_, ok := a.Roles[role]
	return ok
}

// HasPermission reports whether perm is in the account's permission set.
// The set holds direct grants and the permissions that isi.GrantRole copied
// in from granted roles; role definitions are not consulted here.
func (a *Account) HasPermission(perm Permission) bool {
	_, ok := a.Permissions[perm]
	return ok
}

// SignedBy evaluates the account's signature condition against the set of
// public keys that signed a transaction.
func (a *Account) SignedBy(signed map[PublicKey]struct{}) bool {
	return a.SignatureCondition.Evaluate(a.Signatories, signed)
}
