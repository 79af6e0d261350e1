package utils

import (
	"path/filepath"
	"time"

	"github.com/golang/glog"
)

// Version is the current version of the vault agent.
var Version = "0.9.0"

var Settings = &Hub{}

type Hub struct {
	baseDir  string // root of the per-vault directories the toolkit writes in
	storeDir string // where the canonical vault records are stored

	vaultBackupPath string // target dir for vault backups, empty disables them
	vaultBackupTime string // daily backup time in "HH:MM"

	indexName string // alias register file location

	versionInfo string // version number etc. in free format as a string
}

func (h *Hub) BaseDir() string {
	if h.baseDir == "" && glog.V(3) {
		glog.Info("warning base dir is empty")
	}
	return h.baseDir
}

func (h *Hub) SetBaseDir(dir string) {
	h.baseDir = dir
}

// StoreDir returns the canonical record directory. It defaults to a "store"
// subdirectory of the base dir.
func (h *Hub) StoreDir() string {
	if h.storeDir == "" {
		return filepath.Join(h.baseDir, "store")
	}
	return h.storeDir
}

func (h *Hub) SetStoreDir(dir string) {
	h.storeDir = dir
}

func (h *Hub) VaultBackupPath() string {
	return h.vaultBackupPath
}

func (h *Hub) SetVaultBackupPath(path string) {
	h.vaultBackupPath = path
}

func (h *Hub) VaultBackupTime() string {
	return h.vaultBackupTime
}

func (h *Hub) SetVaultBackupTime(t string) {
	h.vaultBackupTime = t
}

func (h *Hub) IndexName() string {
	return h.indexName
}

func (h *Hub) SetIndexName(name string) {
	h.indexName = name
}

// SetVersionInfo sets current version info of this agent. The info is shown
// in the version command.
func (h *Hub) SetVersionInfo(info string) {
	h.versionInfo = info
}

func (h *Hub) VersionInfo() string {
	return h.versionInfo
}

// BackupName builds a timestamped backup file name for a vault.
func BackupName(baseName string) string {
	tsStr := time.Now().Format(time.RFC3339)
	name := tsStr + "_" + baseName
	glog.V(3).Infoln("backup name:", name)
	return name
}
