package isi

import "github.com/irohad/iroha2/wsv"

// GrantPermission grants a single permission token directly to an account.
type GrantPermission struct {
	Account    wsv.AccountId
	Permission wsv.Permission
}

func (i *GrantPermission) String() string        { return "Grant<Permission,Account>" }
func (i *GrantPermission) Accept(v Visitor) error { return v.VisitGrantPermission(i) }
func (i *GrantPermission) Execute(ctx ExecutionContext, w *wsv.WSV) error {
	acc, err := w.Account(i.Account)
	if err != nil {
		return wrapErr(i.String(), err)
	}
	acc.Permissions[i.Permission] = struct{}{}
	w.IndexPermission(i.Account, i.Permission)
	w.Publish(wsv.Event{Kind: wsv.EventPermissionAdded, Domain: i.Account.Domain, Entity: "Account", EntityId: i.Account})
	return nil
}

// RevokePermission revokes a directly-granted permission token.
type RevokePermission struct {
	Account    wsv.AccountId
	Permission wsv.Permission
}

func (i *RevokePermission) String() string        { return "Revoke<Permission,Account>" }
func (i *RevokePermission) Accept(v Visitor) error { return v.VisitRevokePermission(i) }
func (i *RevokePermission) Execute(ctx ExecutionContext, w *wsv.WSV) error {
	acc, err := w.Account(i.Account)
	if err != nil {
		return wrapErr(i.String(), err)
	}
	if !acc.HasPermission(i.Permission) {
		return wrapErr(i.String(), &wsv.FindError{Entity: "PermissionToken", Id: stringId(string(i.Permission.Id))})
	}
	delete(acc.Permissions, i.Permission)
	w.UnindexPermission(i.Account, i.Permission)
	w.Publish(wsv.Event{Kind: wsv.EventPermissionRemoved, Domain: i.Account.Domain, Entity: "Account", EntityId: i.Account})
	return nil
}

// GrantRole grants a role to an account, which expands to one
// PermissionAdded event per permission the role carries plus a single
// RoleGranted event (spec §4.E "Grant<Role>").
type GrantRole struct {
	Account wsv.AccountId
	Role    wsv.RoleId
}

func (i *GrantRole) String() string        { return "Grant<Role,Account>" }
func (i *GrantRole) Accept(v Visitor) error { return v.VisitGrantRole(i) }
func (i *GrantRole) Execute(ctx ExecutionContext, w *wsv.WSV) error {
	role, err := w.Role(i.Role)
	if err != nil {
		return wrapErr(i.String(), err)
	}
	acc, err := w.Account(i.Account)
	if err != nil {
		return wrapErr(i.String(), err)
	}
	acc.Roles[i.Role] = struct{}{}
	w.IndexRole(i.Account, i.Role)
	for _, perm := range role.Permissions {
		acc.Permissions[perm] = struct{}{}
		w.IndexPermission(i.Account, perm)
		w.Publish(wsv.Event{Kind: wsv.EventPermissionAdded, Domain: i.Account.Domain, Entity: "Account", EntityId: i.Account})
	}
	w.Publish(wsv.Event{Kind: wsv.EventRoleGranted, Domain: i.Account.Domain, Entity: "Account", EntityId: i.Account})
	return nil
}

// RevokeRole revokes a role from an account, stripping every permission
// the role carried (unless also granted independently — this simple model
// removes them unconditionally, matching the Rust original's behaviour of
// tracking permissions per-grant rather than by reference count).
type RevokeRole struct {
	Account wsv.AccountId
	Role    wsv.RoleId
}

func (i *RevokeRole) String() string        { return "Revoke<Role,Account>" }
func (i *RevokeRole) Accept(v Visitor) error { return v.VisitRevokeRole(i) }
func (i *RevokeRole) Execute(ctx ExecutionContext, w *wsv.WSV) error {
	role, err := w.Role(i.Role)
	if err != nil {
		return wrapErr(i.String(), err)
	}
	acc, err := w.Account(i.Account)
	if err != nil {
		return wrapErr(i.String(), err)
	}
	if !acc.HasRole(i.Role) {
		return wrapErr(i.String(), &wsv.FindError{Entity: "Role", Id: i.Role})
	}
	delete(acc.Roles, i.Role)
	w.UnindexRole(i.Account, i.Role)
	for _, perm := range role.Permissions {
		delete(acc.Permissions, perm)
		w.UnindexPermission(i.Account, perm)
		w.Publish(wsv.Event{Kind: wsv.EventPermissionRemoved, Domain: i.Account.Domain, Entity: "Account", EntityId: i.Account})
	}
	w.Publish(wsv.Event{Kind: wsv.EventRoleRevoked, Domain: i.Account.Domain, Entity: "Account", EntityId: i.Account})
	return nil
}

// GrantRolePermission adds a permission token to the definition of an
// existing role, retroactively extending every account that holds it.
type GrantRolePermission struct {
	Role       wsv.RoleId
	Permission wsv.Permission
}

func (i *GrantRolePermission) String() string        { return "Grant<Permission,Role>" }
func (i *GrantRolePermission) Accept(v Visitor) error { return v.VisitGrantRolePermission(i) }
func (i *GrantRolePermission) Execute(ctx ExecutionContext, w *wsv.WSV) error {
	role, err := w.Role(i.Role)
	if err != nil {
		return wrapErr(i.String(), err)
	}
	for _, p := range role.Permissions {
		if p == i.Permission {
			return wrapErr(i.String(), &wsv.RepetitionError{Instruction: i.String(), Entity: "PermissionToken", Id: stringId(string(i.Permission.Id))})
		}
	}
	role.Permissions = append(role.Permissions, i.Permission)
	for _, d := range w.Domains {
		for accId, acc := range d.Accounts {
			if acc.HasRole(i.Role) {
				acc.Permissions[i.Permission] = struct{}{}
				w.IndexPermission(accId, i.Permission)
			}
		}
	}
	return nil
}

// RevokeRolePermission removes a permission token from a role's
// definition.
type RevokeRolePermission struct {
	Role       wsv.RoleId
	Permission wsv.Permission
}

func (i *RevokeRolePermission) String() string        { return "Revoke<Permission,Role>" }
func (i *RevokeRolePermission) Accept(v Visitor) error { return v.VisitRevokeRolePermission(i) }
func (i *RevokeRolePermission) Execute(ctx ExecutionContext, w *wsv.WSV) error {
	role, err := w.Role(i.Role)
	if err != nil {
		return wrapErr(i.String(), err)
	}
	for idx, p := range role.Permissions {
		if p == i.Permission {
			role.Permissions = append(role.Permissions[:idx], role.Permissions[idx+1:]...)
			return nil
		}
	}
	return wrapErr(i.String(), &wsv.FindError{Entity: "PermissionToken", Id: stringId(string(i.Permission.Id))})
}

type stringId string

func (s stringId) String() string { return string(s) }
