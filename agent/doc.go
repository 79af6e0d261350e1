/*
Package agent holds the vault agent's building blocks. The agent keeps one
canonical JSON record per vault in sync with the flat adapter files an
identity toolkit reads and writes, for one active vault at a time.

The agent package is empty itself. All the functionality is inside
sub-packages. Summary of the packages:

	accessmgr  tracks used vaults and snapshots them to the backup path
	active     the active-vault context all file operations are routed by
	index      alias register, maps user-facing names to vault ids
	operator   vault lifecycle: create, use, get, update, delete, list
	storage    canonical record store and the aries flat-file bridge
	utils      settings hub, version, home dir, id generation
	vault      the canonical record model and the flat-file section table
	vfs        vault-scoped filesystem router, emits change events
	vsync      seeding and section folds, per-vault fold workers
*/
package agent
