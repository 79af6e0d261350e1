// Package service implements the long-running agent mode: the process that
// hosts the identity toolkit, keeps the sealed box open and runs the
// scheduled vault backups.
package service

import (
	"errors"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/golang/glog"
	"github.com/idvault/vault-agent/agent/accessmgr"
	"github.com/idvault/vault-agent/agent/utils"
	"github.com/idvault/vault-agent/cmds"
	"github.com/idvault/vault-agent/enclave"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

type Cmd struct {
	BaseDir     string
	StoreDir    string
	EnclavePath string
	IndexName   string

	VaultBackupPath string
	VaultBackupTime string

	VersionInfo string
}

func (c *Cmd) Validate() error {
	if c.BaseDir == "" {
		return errors.New("base dir cannot be empty")
	}
	if c.VaultBackupTime != "" {
		if err := cmds.ValidateTime(c.VaultBackupTime); err != nil {
			return err
		}
	}
	if c.VaultBackupPath != "" && c.VaultBackupTime == "" {
		return errors.New("vault backup time must be set with backup path")
	}
	return nil
}

func (c *Cmd) Exec(w io.Writer) (r cmds.Result, err error) {
	return nil, c.Run()
}

func (c *Cmd) Setup() (err error) {
	defer err2.Handle(&err, "service setup")

	c.setRuntimeSettings()

	sealedBoxPath := c.EnclavePath
	if sealedBoxPath == "" {
		sealedBoxPath = filepath.Join(c.BaseDir, "enclave.bolt")
	}
	try.To(enclave.InitSealedBox(sealedBoxPath))
	return nil
}

func (c *Cmd) Run() (err error) {
	defer err2.Handle(&err, "service run")

	try.To(c.Setup())

	agent := try.To1(cmds.BuildAgent())
	defer agent.Close()
	defer enclave.Close()

	c.startBackupTasks()

	glog.V(1).Infoln("vault agent service up, base dir:", c.BaseDir)
	waitForSignal()
	glog.V(1).Infoln("vault agent service shutting down")

	return nil
}

func (c *Cmd) setRuntimeSettings() {
	utils.Settings.SetBaseDir(c.BaseDir)
	if c.StoreDir != "" {
		utils.Settings.SetStoreDir(c.StoreDir)
	}
	utils.Settings.SetIndexName(c.IndexName)
	utils.Settings.SetVaultBackupPath(c.VaultBackupPath)
	utils.Settings.SetVaultBackupTime(c.VaultBackupTime)
	utils.Settings.SetVersionInfo(c.VersionInfo)
}

func (c *Cmd) startBackupTasks() {
	if c.VaultBackupPath == "" {
		glog.V(1).Infoln("vault backups disabled")
		return
	}

	glog.V(1).Infoln("vault backup time:", c.VaultBackupTime)
	if err := accessmgr.StartScheduled(c.VaultBackupTime); err != nil {
		glog.Warningln("vault backup start error:", err)
	}
}

func waitForSignal() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
}
