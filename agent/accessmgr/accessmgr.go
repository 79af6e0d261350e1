// Package accessmgr tracks which vaults have been used since the last backup
// round and snapshots them to the backup path. Vault ids arrive through a
// buffered channel so that callers on the use() path never block on backup
// bookkeeping.
package accessmgr

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/golang/glog"
	"github.com/idvault/vault-agent/agent/utils"
	"github.com/lainio/err2"
	"github.com/lainio/err2/assert"
	"github.com/lainio/err2/try"
)

type chanType chan string
type mapType map[string]struct{}

var (
	input    = make(chanType, 10) // make short performance buffer
	accessed = struct {
		Map mapType
		sync.Mutex
	}{Map: make(mapType)}

	started = false

	cron = gocron.NewScheduler(time.Now().Location())
)

func enabled() bool {
	return utils.Settings.VaultBackupPath() != ""
}

// Send registers a used vault for the next backup round if the access mgr is
// enabled. It also returns the current enable status.
func Send(vaultID string) bool {
	on := enabled()
	if on {
		assert.That(started, "access manager must be started!")

		input <- vaultID
	}
	return on
}

// Start starts the access mgr for the vaults if it's enabled. Access mgr is
// enabled if the vault backup path setting is set.
func Start() {
	assert.That(enabled(), "vault backup path must be set!")

	started = true
	go func() {
		defer err2.Catch(func(err error) error {
			glog.Error(err)
			return nil
		})
		glog.V(1).Infoln("vault access mgr started")
		for vaultID := range input {
			accessed.Lock()

			_, ok := accessed.Map[vaultID]
			if ok {
				glog.V(1).Infoln("vault access already registered")
			}
			accessed.Map[vaultID] = struct{}{}
			accessed.Unlock()
		}
	}()
}

// StartScheduled starts the access mgr and schedules a daily backup round at
// the given "HH:MM" time.
func StartScheduled(at string) (err error) {
	defer err2.Handle(&err, "start scheduled backup")

	Start()
	try.To1(cron.Every(1).Day().At(at).Do(StartBackup))
	cron.StartAsync()

	glog.V(1).Infoln("vault backup scheduled at:", at)
	return nil
}

// StartBackup starts the backup process for the vaults used since the last
// round.
func StartBackup() {
	if !enabled() {
		glog.Warning("vault backup disabled")
		return
	}

	accessed.Lock()
	defer accessed.Unlock()

	newMap := accessed.Map
	accessed.Map = make(mapType)

	go runBackup(newMap)
}

func runBackup(m mapType) {
	for id := range m {
		if err := backup(id); err != nil {
			glog.Error("error in backup:", err)
		} else {
			glog.V(1).Infoln("successful vault backup:", id)
		}
	}
}

// backup snapshots one vault: the canonical record and the flat-file
// directory go under a timestamped directory in the backup path.
func backup(vaultID string) (err error) {
	defer err2.Handle(&err, "vault backup")

	target := filepath.Join(utils.Settings.VaultBackupPath(),
		utils.BackupName(vaultID))
	try.To(os.MkdirAll(target, 0700))

	record := filepath.Join(utils.Settings.StoreDir(), vaultID+".json")
	try.To(copyFile(record, filepath.Join(target, vaultID+".json")))

	vaultDir := filepath.Join(utils.Settings.BaseDir(), vaultID)
	entries, err := os.ReadDir(vaultDir)
	if os.IsNotExist(err) {
		return nil // vault never seeded, record copy is the whole backup
	}
	try.To(err)

	filesDir := filepath.Join(target, "files")
	try.To(os.MkdirAll(filesDir, 0700))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		try.To(copyFile(
			filepath.Join(vaultDir, e.Name()),
			filepath.Join(filesDir, e.Name())))
	}
	return nil
}

func copyFile(from, to string) (err error) {
	defer err2.Handle(&err, "copy file")

	src := try.To1(os.Open(from))
	defer src.Close()

	dst := try.To1(os.OpenFile(to, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600))
	defer dst.Close()

	try.To1(io.Copy(dst, src))
	return nil
}
