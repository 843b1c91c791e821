package wsv

// indexes holds the derived lookup tables the spec requires to be
// maintained incrementally by ISI handlers (spec §4.D): accounts-by-domain,
// assets-by-account, triggers-by-domain, accounts-with-asset,
// permissions-by-account, roles-by-account. A full rebuild (Rebuild) is
// only needed once, on load from the block store.
type indexes struct {
	accountsByDomain     map[DomainId]map[AccountId]struct{}
	assetsByAccount      map[AccountId]map[AssetId]struct{}
	triggersByDomain     map[DomainId]map[TriggerId]struct{}
	accountsWithAsset    map[AssetDefinitionId]map[AccountId]struct{}
	permissionsByAccount map[AccountId]map[Permission]struct{}
	rolesByAccount       map[AccountId]map[RoleId]struct{}
}

func newIndexes() *indexes {
	return &indexes{
		accountsByDomain:     make(map[DomainId]map[AccountId]struct{}),
		assetsByAccount:      make(map[AccountId]map[AssetId]struct{}),
		triggersByDomain:     make(map[DomainId]map[TriggerId]struct{}),
		accountsWithAsset:    make(map[AssetDefinitionId]map[AccountId]struct{}),
		permissionsByAccount: make(map[AccountId]map[Permission]struct{}),
		rolesByAccount:       make(map[AccountId]map[RoleId]struct{}),
	}
}

func (ix *indexes) addAccount(a AccountId) {
	set, ok := ix.accountsByDomain[a.Domain]
	if !ok {
		set = make(map[AccountId]struct{})
		ix.accountsByDomain[a.Domain] = set
	}
	set[a] = struct{}{}
}

func (ix *indexes) removeAccount(a AccountId) {
	delete(ix.accountsByDomain[a.Domain], a)
}

func (ix *indexes) addAsset(asset AssetId) {
	set, ok := ix.assetsByAccount[asset.Account]
	if !ok {
		set = make(map[AssetId]struct{})
		ix.assetsByAccount[asset.Account] = set
	}
	set[asset] = struct{}{}

	holders, ok := ix.accountsWithAsset[asset.Definition]
	if !ok {
		holders = make(map[AccountId]struct{})
		ix.accountsWithAsset[asset.Definition] = holders
	}
	holders[asset.Account] = struct{}{}
}

func (ix *indexes) removeAsset(asset AssetId) {
	delete(ix.assetsByAccount[asset.Account], asset)
	delete(ix.accountsWithAsset[asset.Definition], asset.Account)
}

func (ix *indexes) addTrigger(domain DomainId, id TriggerId) {
	set, ok := ix.triggersByDomain[domain]
	if !ok {
		set = make(map[TriggerId]struct{})
		ix.triggersByDomain[domain] = set
	}
	set[id] = struct{}{}
}

func (ix *indexes) removeTrigger(domain DomainId, id TriggerId) {
	delete(ix.triggersByDomain[domain], id)
}

func (ix *indexes) addPermission(a AccountId, p Permission) {
	set, ok := ix.permissionsByAccount[a]
	if !ok {
		set = make(map[Permission]struct{})
		ix.permissionsByAccount[a] = set
	}
	set[p] = struct{}{}
}

func (ix *indexes) removePermission(a AccountId, p Permission) {
	delete(ix.permissionsByAccount[a], p)
}

func (ix *indexes) addRole(a AccountId, r RoleId) {
	set, ok := ix.rolesByAccount[a]
	if !ok {
		set = make(map[RoleId]struct{})
		ix.rolesByAccount[a] = set
	}
	set[r] = struct{}{}
}

func (ix *indexes) removeRole(a AccountId, r RoleId) {
	delete(ix.rolesByAccount[a], r)
}

// clone returns a shallow copy of ix: fresh outer and inner maps, so the
// copy's index mutations never touch ix's, while the (comparable, immutable)
// key values themselves are simply copied.
func (ix *indexes) clone() *indexes {
	out := newIndexes()
	for d, accounts := range ix.accountsByDomain {
		set := make(map[AccountId]struct{}, len(accounts))
		for a := range accounts {
			set[a] = struct{}{}
		}
		out.accountsByDomain[d] = set
	}
	for a, assets := range ix.assetsByAccount {
		set := make(map[AssetId]struct{}, len(assets))
		for as := range assets {
			set[as] = struct{}{}
		}
		out.assetsByAccount[a] = set
	}
	for d, triggers := range ix.triggersByDomain {
		set := make(map[TriggerId]struct{}, len(triggers))
		for tr := range triggers {
			set[tr] = struct{}{}
		}
		out.triggersByDomain[d] = set
	}
	for def, accounts := range ix.accountsWithAsset {
		set := make(map[AccountId]struct{}, len(accounts))
		for a := range accounts {
			set[a] = struct{}{}
		}
		out.accountsWithAsset[def] = set
	}
	for a, perms := range ix.permissionsByAccount {
		set := make(map[Permission]struct{}, len(perms))
		for p := range perms {
			set[p] = struct{}{}
		}
		out.permissionsByAccount[a] = set
	}
	for a, roles := range ix.rolesByAccount {
		set := make(map[RoleId]struct{}, len(roles))
		for r := range roles {
			set[r] = struct{}{}
		}
		out.rolesByAccount[a] = set
	}
	return out
}

// rebuild recomputes every derived index from the authoritative maps. Only
// needed once, at load time.
func (w *WSV) rebuildIndexes() {
	ix := newIndexes()
	for domainId, domain := range w.Domains {
		for accountId, account := range domain.Accounts {
			ix.addAccount(accountId)
			for assetId := range account.Assets {
				ix.addAsset(assetId)
			}
			for perm := range account.Permissions {
				ix.addPermission(accountId, perm)
			}
			for role := range account.Roles {
				ix.addRole(accountId, role)
			}
		}
		for triggerId, trigger := range w.Triggers {
			if trigger.Action.Authority.Domain == domainId {
				ix.addTrigger(domainId, triggerId)
			}
		}
	}
	w.ix = ix
}
