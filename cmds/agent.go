package cmds

import (
	"github.com/idvault/vault-agent/agent/active"
	"github.com/idvault/vault-agent/agent/index"
	"github.com/idvault/vault-agent/agent/operator"
	"github.com/idvault/vault-agent/agent/storage/api"
	"github.com/idvault/vault-agent/agent/storage/flatfile"
	"github.com/idvault/vault-agent/agent/storage/vaultstore"
	"github.com/idvault/vault-agent/agent/utils"
	"github.com/idvault/vault-agent/agent/vfs"
	"github.com/idvault/vault-agent/agent/vsync"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// Agent is the wired vault agent the commands execute against.
type Agent struct {
	Active   *active.Ctx
	Store    *vaultstore.Store
	Router   *vfs.Router
	Syncer   *vsync.Synchronizer
	Operator *operator.Operator
	Index    *index.Reg

	// Toolkit is the aries storage provider the identity toolkit plugs
	// into; its writes flow through the router into section sync.
	Toolkit *flatfile.Provider
}

// BuildAgent wires the storage, the synchronizer, the router and the
// operator from the current settings. The router's only change observer is
// the synchronizer.
func BuildAgent() (a *Agent, err error) {
	defer err2.Handle(&err, "build agent")

	baseDir := utils.Settings.BaseDir()

	store := vaultstore.New(api.VaultStorageConfig{
		StoreDir: utils.Settings.StoreDir(),
	})
	actx := active.New()
	syncer := vsync.New(store, baseDir)
	router := vfs.New(baseDir, actx, syncer.HandleChange)

	a = &Agent{
		Active:   actx,
		Store:    store,
		Router:   router,
		Syncer:   syncer,
		Operator: operator.New(store, syncer, actx, baseDir),
		Index:    index.New(),
		Toolkit:  flatfile.New(router),
	}

	if name := utils.Settings.IndexName(); name != "" {
		try.To(a.Index.Load(name))
	}
	return a, nil
}

// Close releases the agent's workers.
func (a *Agent) Close() {
	a.Syncer.Close()
}
