package accessmgr

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/idvault/vault-agent/agent/utils"
	"github.com/lainio/err2/assert"
	"github.com/lainio/err2/try"
)

func Test_backup(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	baseDir := t.TempDir()
	backupDir := t.TempDir()
	utils.Settings.SetBaseDir(baseDir)
	utils.Settings.SetVaultBackupPath(backupDir)
	defer func() {
		utils.Settings.SetBaseDir("")
		utils.Settings.SetVaultBackupPath("")
	}()

	// a canonical record and two seeded flat files
	try.To(os.MkdirAll(utils.Settings.StoreDir(), 0700))
	try.To(os.WriteFile(
		filepath.Join(utils.Settings.StoreDir(), "alice.json"),
		[]byte(`{"id":"alice"}`), 0600))
	vaultDir := filepath.Join(baseDir, "alice")
	try.To(os.MkdirAll(vaultDir, 0700))
	try.To(os.WriteFile(filepath.Join(vaultDir, "didstore.json"),
		[]byte(`{}`), 0600))
	try.To(os.WriteFile(filepath.Join(vaultDir, "keystore.json"),
		[]byte(`{}`), 0600))

	assert.NoError(backup("alice"))

	entries := try.To1(os.ReadDir(backupDir))
	assert.SLen(entries, 1)
	assert.That(strings.HasSuffix(entries[0].Name(), "_alice"))

	target := filepath.Join(backupDir, entries[0].Name())
	data := try.To1(os.ReadFile(filepath.Join(target, "alice.json")))
	assert.Equal(`{"id":"alice"}`, string(data))

	files := try.To1(os.ReadDir(filepath.Join(target, "files")))
	assert.SLen(files, 2)
}

func Test_backupUnseededVault(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	baseDir := t.TempDir()
	backupDir := t.TempDir()
	utils.Settings.SetBaseDir(baseDir)
	utils.Settings.SetVaultBackupPath(backupDir)
	defer func() {
		utils.Settings.SetBaseDir("")
		utils.Settings.SetVaultBackupPath("")
	}()

	try.To(os.MkdirAll(utils.Settings.StoreDir(), 0700))
	try.To(os.WriteFile(
		filepath.Join(utils.Settings.StoreDir(), "bob.json"),
		[]byte(`{"id":"bob"}`), 0600))

	// no vault directory: the record copy alone is the backup
	assert.NoError(backup("bob"))

	entries := try.To1(os.ReadDir(backupDir))
	assert.SLen(entries, 1)
	_, err := os.Stat(filepath.Join(backupDir, entries[0].Name(), "files"))
	assert.That(os.IsNotExist(err))
}

func TestSendDisabled(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	utils.Settings.SetVaultBackupPath("")
	assert.ThatNot(Send("alice"))
}
