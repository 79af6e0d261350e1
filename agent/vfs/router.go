// Package vfs routes the fixed flat-file names the identity toolkit knows
// into the directory of the currently active vault and notifies its change
// observer of every operation. The observer is registered at construction:
// the router has exactly one consumer edge, the synchronizer, instead of a
// global event bus.
package vfs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang/glog"
	"github.com/idvault/vault-agent/agent/active"
	"github.com/idvault/vault-agent/agent/vault"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

type Op string

const (
	OpRead   Op = "read"
	OpWrite  Op = "write"
	OpDelete Op = "delete"
)

// Event tells the observer that a flat file of a vault was touched. Only
// write events drive section sync, read and delete are informational.
type Event struct {
	Path    string
	VaultID string
	Op      Op
}

type Router struct {
	baseDir  string
	active   *active.Ctx
	onChange func(Event)
}

func New(baseDir string, actx *active.Ctx, onChange func(Event)) *Router {
	return &Router{baseDir: baseDir, active: actx, onChange: onChange}
}

// VaultDir returns the directory of the given vault under the base dir.
func (r *Router) VaultDir(vaultID string) string {
	return filepath.Join(r.baseDir, vaultID)
}

// resolve rewrites a flat-file basename into the active vault's directory.
// The active id is read fresh on every call, never cached.
func (r *Router) resolve(name string) (path, vaultID string, err error) {
	vaultID = r.active.ID()
	if vaultID == "" {
		return "", "", fmt.Errorf("%s: %w", name, vault.ErrNoActiveVault)
	}
	return filepath.Join(r.VaultDir(vaultID), filepath.Base(name)), vaultID, nil
}

func (r *Router) notify(e Event) {
	if r.onChange != nil {
		r.onChange(e)
	}
}

func (r *Router) Exists(name string) (ok bool, err error) {
	defer err2.Handle(&err, "vfs exists")

	path, _, err := r.resolve(name)
	try.To(err)

	_, err = os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	try.To(err)
	return true, nil
}

func (r *Router) ReadFile(name string) (data []byte, err error) {
	defer err2.Handle(&err, "vfs read")

	path, vaultID, err := r.resolve(name)
	try.To(err)

	data = try.To1(os.ReadFile(path))
	r.notify(Event{Path: path, VaultID: vaultID, Op: OpRead})
	return data, nil
}

// WriteFile writes a flat file inside the active vault's directory and emits
// the write event that drives section sync. This is the sole edge connecting
// toolkit activity to the synchronizer.
func (r *Router) WriteFile(name string, data []byte) (err error) {
	defer err2.Handle(&err, "vfs write")

	path, vaultID, err := r.resolve(name)
	try.To(err)

	try.To(os.MkdirAll(filepath.Dir(path), 0700))
	try.To(os.WriteFile(path, data, 0600))

	glog.V(5).Infoln("vfs write:", path)
	r.notify(Event{Path: path, VaultID: vaultID, Op: OpWrite})
	return nil
}

func (r *Router) Remove(name string) (err error) {
	defer err2.Handle(&err, "vfs remove")

	path, vaultID, err := r.resolve(name)
	try.To(err)

	try.To(os.Remove(path))
	r.notify(Event{Path: path, VaultID: vaultID, Op: OpDelete})
	return nil
}

// EnsureDir makes sure the active vault's directory exists.
func (r *Router) EnsureDir() (err error) {
	defer err2.Handle(&err, "vfs ensure dir")

	vaultID := r.active.ID()
	if vaultID == "" {
		return vault.ErrNoActiveVault
	}
	return os.MkdirAll(r.VaultDir(vaultID), 0700)
}

// ReadDir lists the basenames in the active vault's directory.
func (r *Router) ReadDir() (names []string, err error) {
	defer err2.Handle(&err, "vfs read dir")

	vaultID := r.active.ID()
	if vaultID == "" {
		return nil, vault.ErrNoActiveVault
	}

	entries := try.To1(os.ReadDir(r.VaultDir(vaultID)))
	names = make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}
