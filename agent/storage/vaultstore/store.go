// Package vaultstore is the file-backed vault storage: one JSON document per
// vault id under the store directory. It is the durable source of truth the
// synchronizer folds flat-file writes into.
package vaultstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/findy-network/findy-common-go/dto"
	"github.com/golang/glog"
	"github.com/idvault/vault-agent/agent/storage/api"
	"github.com/idvault/vault-agent/agent/vault"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

const vaultFileExt = ".json"

type Store struct {
	dir string
	l   sync.Mutex // serializes record read-modify-write inside the process
}

func New(config api.VaultStorageConfig) *Store {
	return &Store{dir: config.StoreDir}
}

func (s *Store) vaultFile(id string) string {
	return filepath.Join(s.dir, id+vaultFileExt)
}

func (s *Store) Create(v *vault.Vault) (err error) {
	defer err2.Handle(&err, "vault store create")

	s.l.Lock()
	defer s.l.Unlock()

	try.To(os.MkdirAll(s.dir, 0700))

	name := s.vaultFile(v.ID)
	if _, err := os.Stat(name); err == nil {
		return fmt.Errorf("%s: %w", v.ID, vault.ErrAlreadyExists)
	}

	try.To(writeFileAtomic(name, dto.ToJSONBytes(v)))
	glog.V(1).Infoln("created vault record:", v.ID)
	return nil
}

func (s *Store) Get(id string) (v *vault.Vault, err error) {
	defer err2.Handle(&err, "vault store get")

	data, err := os.ReadFile(s.vaultFile(id))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: %w", id, vault.ErrNotFound)
	}
	try.To(err)

	v = &vault.Vault{}
	// a corrupt record is a fatal read error, never defaulted over
	try.To(json.Unmarshal(data, v))
	return v, nil
}

func (s *Store) Update(in *vault.Vault) (err error) {
	defer err2.Handle(&err, "vault store update")

	s.l.Lock()
	defer s.l.Unlock()

	cur := try.To1(s.Get(in.ID))
	merge(cur, in)

	try.To(writeFileAtomic(s.vaultFile(in.ID), dto.ToJSONBytes(cur)))
	glog.V(3).Infoln("updated vault record:", in.ID)
	return nil
}

func (s *Store) Delete(id string) (err error) {
	defer err2.Handle(&err, "vault store delete")

	s.l.Lock()
	defer s.l.Unlock()

	name := s.vaultFile(id)
	if _, err := os.Stat(name); os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", id, vault.ErrNotFound)
	}
	try.To(os.Remove(name))
	glog.V(1).Infoln("deleted vault record:", id)
	return nil
}

func (s *Store) List() (vaults []*vault.Vault, err error) {
	defer err2.Handle(&err, "vault store list")

	vaults = make([]*vault.Vault, 0)

	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return vaults, nil
	}
	try.To(err)

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), vaultFileExt) {
			continue
		}
		id := strings.TrimSuffix(e.Name(), vaultFileExt)
		vaults = append(vaults, try.To1(s.Get(id)))
	}
	return vaults, nil
}

// merge overlays the incoming record over the current one. Sections and the
// identity present in the incoming record replace the stored ones as a whole;
// the id and the creation time stay as they are.
func merge(cur, in *vault.Vault) {
	if in.Identity != nil {
		cur.Identity = in.Identity
	}
	for _, s := range vault.Sections() {
		if records := in.Get(s.Name); records != nil {
			cur.Set(s.Name, records)
		}
	}
}

// writeFileAtomic writes through a temp file in the target dir and renames it
// over the destination so that an interrupted write never leaves a truncated
// record readable by a later Get.
func writeFileAtomic(name string, data []byte) (err error) {
	defer err2.Handle(&err, "atomic write")

	tmp := try.To1(os.CreateTemp(filepath.Dir(name), ".tmp-*"))
	defer os.Remove(tmp.Name()) // no-op after successful rename

	_, err = tmp.Write(data)
	if err != nil {
		_ = tmp.Close()
		return err
	}
	try.To(tmp.Close())
	try.To(os.Rename(tmp.Name(), name))
	return nil
}
