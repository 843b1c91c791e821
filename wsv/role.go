package wsv

// Permission is a tagged string id plus an opaque JSON payload identifying
// the authorised operation and its object, e.g.
// {"id": "CanTransferUserAsset", "payload": {"asset_id": "..."}}. Payload
// equality is by byte-for-byte comparison of the already-canonicalised
// JSON; canonicalisation itself is the caller's responsibility (typically
// the executor that grants the permission).
type Permission struct {
	Id      PermissionId
	Payload string
}

// Role is a named, reusable bundle of permission tokens.
type Role struct {
	Id          RoleId
	Permissions []Permission
}
