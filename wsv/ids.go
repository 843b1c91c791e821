// Package wsv implements the World State View: the authoritative, in-memory
// domain model for domains, accounts, assets, roles, permissions and
// triggers (spec §4.D). Every identifier in this package is a plain value
// addressed by name — there are no borrowed references between entities,
// only ids looked up at dispatch time, so the domain → account → trigger →
// domain cycle never needs a cyclic owning structure (see design notes on
// cyclic references).
package wsv

import "fmt"

// Name is a hierarchical identifier component; domains, triggers and roles
// are all addressed by a bare Name.
type Name string

// DomainId identifies a Domain.
type DomainId Name

func (d DomainId) String() string { return string(d) }

// PublicKey is an opaque signatory identifier. Cryptographic verification
// of signatures against a PublicKey is an external collaborator (the
// crypto primitives library); WSV only ever compares and stores the bytes.
type PublicKey string

// AccountId is a signatory scoped to a domain: `signatory@domain`.
type AccountId struct {
	Domain    DomainId
	Signatory PublicKey
}

func (a AccountId) String() string { return fmt.Sprintf("%s@%s", a.Signatory, a.Domain) }

// AssetDefinitionId names an asset kind within a domain: `name#domain`.
type AssetDefinitionId struct {
	Name   Name
	Domain DomainId
}

func (a AssetDefinitionId) String() string { return fmt.Sprintf("%s#%s", a.Name, a.Domain) }

// AssetId is an asset definition scoped to the owning account:
// `name#domain#signatory@domain`.
type AssetId struct {
	Definition AssetDefinitionId
	Account    AccountId
}

func (a AssetId) String() string { return fmt.Sprintf("%s#%s", a.Definition, a.Account) }

// TriggerId names a Trigger.
type TriggerId Name

func (t TriggerId) String() string { return string(t) }

// RoleId names a Role.
type RoleId Name

func (r RoleId) String() string { return string(r) }

// PeerId identifies a consensus participant by network address and public
// key.
type PeerId struct {
	Address   string
	PublicKey PublicKey
}

func (p PeerId) String() string { return fmt.Sprintf("%s@%s", p.PublicKey, p.Address) }

// ChainId is the opaque short string mixed into every transaction
// signature to prevent cross-chain replay.
type ChainId string

// PermissionId tags a permission token kind (e.g. "CanTransferUserAsset").
type PermissionId string
