package wsv

// Domain owns a set of accounts and asset definitions. Every domain is
// itself owned by exactly one account (spec §3); the owner need not live
// inside the domain it owns.
type Domain struct {
	Id                DomainId
	Owner             AccountId
	Accounts          map[AccountId]*Account
	AssetDefinitions  map[AssetDefinitionId]*AssetDefinition
	Metadata          *Metadata
}

// NewDomain returns an empty domain owned by owner.
func NewDomain(id DomainId, owner AccountId) *Domain {
	return &Domain{
		Id:               id,
		Owner:            owner,
		Accounts:         make(map[AccountId]*Account),
		AssetDefinitions: make(map[AssetDefinitionId]*AssetDefinition),
		Metadata:         NewMetadata(),
	}
}
