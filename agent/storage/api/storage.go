package api

import (
	"github.com/idvault/vault-agent/agent/vault"
)

type VaultStorageConfig struct {
	StoreDir string
}

// VaultStorage is durable CRUD over canonical vault records. Implementations
// return vault.ErrNotFound and vault.ErrAlreadyExists for the missing and
// colliding cases so that callers can test with errors.Is.
type VaultStorage interface {
	Create(v *vault.Vault) error
	Get(id string) (*vault.Vault, error)

	// Update merges the incoming record over the stored one: sections and
	// identity present in the incoming record replace the stored ones as a
	// whole, the id and creation time are never overwritten.
	Update(v *vault.Vault) error

	Delete(id string) error
	List() ([]*vault.Vault, error)
}
