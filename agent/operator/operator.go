// Package operator is the public lifecycle façade of the vault agent:
// create, use, get, update, delete and list vaults. It composes the vault
// storage, the synchronizer and the active-vault context; use() is the
// transition that activates a vault and seeds its flat files.
package operator

import (
	"os"
	"path/filepath"

	"github.com/golang/glog"
	"github.com/idvault/vault-agent/agent/accessmgr"
	"github.com/idvault/vault-agent/agent/active"
	"github.com/idvault/vault-agent/agent/storage/api"
	"github.com/idvault/vault-agent/agent/vault"
	"github.com/idvault/vault-agent/agent/vsync"
	"github.com/idvault/vault-agent/enclave"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

type Operator struct {
	store   api.VaultStorage
	syncer  *vsync.Synchronizer
	active  *active.Ctx
	baseDir string
}

func New(
	store api.VaultStorage,
	syncer *vsync.Synchronizer,
	actx *active.Ctx,
	baseDir string,
) *Operator {
	return &Operator{
		store:   store,
		syncer:  syncer,
		active:  actx,
		baseDir: baseDir,
	}
}

// CreateNew validates the id and writes an empty canonical record. When the
// enclave is open a vault key is provisioned as well.
func (o *Operator) CreateNew(id string) (vaultID string, err error) {
	defer err2.Handle(&err, "create vault")

	try.To(vault.ValidateID(id))
	try.To(o.store.Create(vault.New(id)))

	if enclave.Initialized() {
		try.To1(enclave.NewVaultKey(id))
	}

	glog.V(1).Infoln("created vault:", id)
	return id, nil
}

// Use activates a vault: the active context is set, the synchronizer seeds
// the flat files and takes the vault as its current one. When seeding fails
// the activation is rolled back, the caller must not run the toolkit against
// a partially seeded vault.
func (o *Operator) Use(id string) (err error) {
	defer err2.Handle(&err, "use vault")

	try.To1(o.store.Get(id))

	o.active.Set(id)
	if err := o.syncer.SeedFilesFromVault(id); err != nil {
		o.active.Clear()
		o.syncer.SetActiveVault("")
		return err
	}

	accessmgr.Send(id)
	glog.V(1).Infoln("vault in use:", id)
	return nil
}

func (o *Operator) GetVault(id string) (*vault.Vault, error) {
	return o.store.Get(id)
}

func (o *Operator) UpdateVault(v *vault.Vault) error {
	return o.store.Update(v)
}

func (o *Operator) ListVaults() ([]*vault.Vault, error) {
	return o.store.List()
}

// DeleteVault removes the canonical record and the vault's flat-file
// directory. Deleting the active vault deactivates it first.
func (o *Operator) DeleteVault(id string) (err error) {
	defer err2.Handle(&err, "delete vault")

	try.To(o.store.Delete(id))

	if o.active.ID() == id {
		o.active.Clear()
		o.syncer.SetActiveVault("")
	}
	try.To(os.RemoveAll(filepath.Join(o.baseDir, id)))

	if enclave.Initialized() && enclave.VaultKeyExists(id) {
		try.To(enclave.RmVaultKey(id))
	}

	glog.V(1).Infoln("deleted vault:", id)
	return nil
}

// CurrentVaultID returns the active vault id, empty when none is selected.
func (o *Operator) CurrentVaultID() string {
	return o.active.ID()
}
