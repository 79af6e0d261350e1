/*
Package main is the application package for the identity vault agent: a
single-process coordination layer that manages per-identity vaults. A vault
is an isolated, directory-scoped container of one identity's DID, keys,
private key material and verifiable credentials, plus its canonical JSON
record.

The hard part the repository solves is keeping two representations of the
same data consistent: the canonical, versioned vault record the agent owns,
and the four flat adapter files (key store, private-key store, DID store, VC
store) the external identity toolkit reads and writes directly. When a vault
is taken into use its record is projected into the flat files once
("seeding"); after that every toolkit write observed by the vault-scoped
filesystem router is folded back into the matching section of the canonical
record, one fold at a time per vault.

You can use the repo two ways:

1. As Go packages: wire agent/operator, agent/vsync and agent/vfs into an
application hosting an identity toolkit, and hand the toolkit the
agent/storage/flatfile provider.

2. As a CLI tool for creating, activating, listing and removing vaults, and
for running the long-lived service mode with scheduled vault backups.
*/
package main
