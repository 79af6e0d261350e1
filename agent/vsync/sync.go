/*
Package vsync keeps the canonical vault record and the flat adapter files
consistent in both directions for one active vault at a time.

Seeding projects the canonical sections into the flat files once, when a
vault becomes active. After that the identity toolkit owns the flat files:
every write the router observes is folded back into the matching section of
the canonical record. Folds for the same vault are serialized through a
per-vault worker, folds for different vaults are independent.
*/
package vsync

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/findy-network/findy-common-go/dto"
	"github.com/golang/glog"
	"github.com/idvault/vault-agent/agent/storage/api"
	"github.com/idvault/vault-agent/agent/vault"
	"github.com/idvault/vault-agent/agent/vfs"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

type Synchronizer struct {
	store   api.VaultStorage
	baseDir string
	q       *queues

	activeID string
	l        sync.RWMutex
}

func New(store api.VaultStorage, baseDir string) *Synchronizer {
	return &Synchronizer{
		store:   store,
		baseDir: baseDir,
		q:       newQueues(),
	}
}

// SetActiveVault transitions the synchronizer's notion of the current vault.
// It doesn't seed, that is SeedFilesFromVault's job.
func (s *Synchronizer) SetActiveVault(id string) {
	s.l.Lock()
	defer s.l.Unlock()
	s.activeID = id
}

// ActiveVault returns the synchronizer's current vault id, empty when none.
func (s *Synchronizer) ActiveVault() string {
	s.l.RLock()
	defer s.l.RUnlock()
	return s.activeID
}

func (s *Synchronizer) vaultDir(id string) string {
	return filepath.Join(s.baseDir, id)
}

// SeedFilesFromVault writes the four flat adapter files from the canonical
// record when the vault becomes active. A vault whose directory already holds
// the DID store file is treated as seeded: seeding never overwrites flat
// files the toolkit may have written since. The vault is marked active only
// after every file is on disk.
func (s *Synchronizer) SeedFilesFromVault(vaultID string) (err error) {
	defer err2.Handle(&err, "seed vault files")

	v := try.To1(s.store.Get(vaultID))

	dir := s.vaultDir(vaultID)
	if _, err := os.Stat(filepath.Join(dir, vault.DIDStoreFile)); err == nil {
		glog.V(1).Infoln("vault already seeded:", vaultID)
		s.SetActiveVault(vaultID)
		return nil
	}

	try.To(os.MkdirAll(dir, 0700))

	for _, section := range vault.Sections() {
		// an empty section still writes {}: readers must never see a
		// missing file as distinct from an empty one
		m := section.FileMap(v.Get(section.Name))
		name := filepath.Join(dir, section.File)
		try.To(os.WriteFile(name, dto.ToJSONBytes(m), 0600))
		glog.V(3).Infof("seeded %s with %d entries", name, len(m))
	}

	s.SetActiveVault(vaultID)
	glog.V(1).Infoln("seeded vault:", vaultID)
	return nil
}

// HandleChange receives the router's change events. Write events on known
// flat-file names enqueue a section fold; everything else is ignored.
func (s *Synchronizer) HandleChange(ev vfs.Event) {
	if ev.Op != vfs.OpWrite {
		glog.V(5).Infoln("ignoring", ev.Op, "event:", ev.Path)
		return
	}

	section, ok := vault.SectionForFile(filepath.Base(ev.Path))
	if !ok {
		glog.V(3).Infoln("ignoring write to unknown file:", ev.Path)
		return
	}

	// a write with no active vault cannot be attributed, drop it
	if s.ActiveVault() == "" {
		glog.V(1).Infoln("dropping unattributed write:", ev.Path)
		return
	}

	s.q.enqueue(ev.VaultID, func() {
		if err := s.fold(ev.VaultID, section, ev.Path); err != nil {
			// losing one fold beats corrupting the record: log and
			// leave the record at its last consistent state
			glog.Errorln("section fold failed:", err)
		}
	})
}

// fold re-absorbs a flat file's whole content into the matching section of
// the canonical record. All-or-nothing: any failure leaves the record as is.
func (s *Synchronizer) fold(vaultID string, section vault.Section, path string) (err error) {
	defer err2.Handle(&err, "fold "+section.Name)

	data := try.To1(os.ReadFile(path))

	var m map[string]vault.Record
	try.To(json.Unmarshal(data, &m))

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	records := make([]vault.Record, 0, len(m))
	for _, k := range keys {
		records = append(records, m[k])
	}

	update := &vault.Vault{ID: vaultID}
	update.Set(section.Name, records)
	try.To(s.store.Update(update))

	glog.V(3).Infof("folded %d entries into %s of %s",
		len(records), section.Name, vaultID)
	return nil
}

// Flush blocks until every fold enqueued so far has been applied.
func (s *Synchronizer) Flush() {
	s.q.flush()
}

// Close stops the fold workers after their queued folds have run.
func (s *Synchronizer) Close() {
	s.q.close()
}
