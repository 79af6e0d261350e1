// Package flatfile implements the aries spi/storage Provider and Store on
// top of the vault-scoped filesystem router. It is the socket an aries-based
// identity toolkit plugs into: every store maps to one flat adapter file in
// the active vault's directory, and every Put lands as a router write event,
// which is what drives section sync.
package flatfile

import (
	"encoding/json"
	"fmt"

	"github.com/findy-network/findy-common-go/dto"
	"github.com/golang/glog"
	"github.com/hyperledger/aries-framework-go/spi/storage"
	"github.com/idvault/vault-agent/agent/vault"
	"github.com/idvault/vault-agent/agent/vfs"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// Store names the toolkit opens, bound to their flat adapter files.
const (
	NameKey        = "key"
	NamePrivateKey = "privatekey"
	NameDID        = "did"
	NameCredential = "credential"
)

var storeFiles = map[string]string{
	NameKey:        vault.KeyStoreFile,
	NamePrivateKey: vault.PrivateKeyStoreFile,
	NameDID:        vault.DIDStoreFile,
	NameCredential: vault.VCStoreFile,
}

const level7 = 7

type Provider struct {
	router *vfs.Router
	stores map[string]*flatStore
}

func New(router *vfs.Router) *Provider {
	return &Provider{
		router: router,
		stores: make(map[string]*flatStore),
	}
}

// OpenStore returns the store bound to one of the four flat adapter files.
func (p *Provider) OpenStore(name string) (storage.Store, error) {
	glog.V(level7).Infoln("Provider::OpenStore", name)

	if s, ok := p.stores[name]; ok {
		return s, nil
	}
	file, ok := storeFiles[name]
	if !ok {
		return nil, fmt.Errorf("store %s not found", name)
	}
	s := &flatStore{router: p.router, file: file}
	p.stores[name] = s
	return s, nil
}

func (p *Provider) SetStoreConfig(name string, _ storage.StoreConfiguration) error {
	glog.V(level7).Infoln("Provider::SetStoreConfig", name)
	return fmt.Errorf("store configs not supported")
}

func (p *Provider) GetStoreConfig(name string) (storage.StoreConfiguration, error) {
	glog.V(level7).Infoln("Provider::GetStoreConfig", name)
	return storage.StoreConfiguration{}, fmt.Errorf("store configs not supported")
}

func (p *Provider) GetOpenStores() []storage.Store {
	open := make([]storage.Store, 0, len(p.stores))
	for _, s := range p.stores {
		open = append(open, s)
	}
	return open
}

func (p *Provider) Close() error {
	return nil
}

// flatStore holds no state of its own: every operation reads the flat file
// through the router and writes the whole map back, so the router sees each
// mutation as one write event.
type flatStore struct {
	router *vfs.Router
	file   string
}

func (s *flatStore) loadMap() (m map[string]json.RawMessage, err error) {
	defer err2.Handle(&err, "flat store load")

	m = make(map[string]json.RawMessage)

	ok := try.To1(s.router.Exists(s.file))
	if !ok {
		return m, nil
	}

	data := try.To1(s.router.ReadFile(s.file))
	try.To(json.Unmarshal(data, &m))
	return m, nil
}

func (s *flatStore) saveMap(m map[string]json.RawMessage) error {
	return s.router.WriteFile(s.file, dto.ToJSONBytes(m))
}

func (s *flatStore) Put(key string, value []byte, tags ...storage.Tag) (err error) {
	defer err2.Handle(&err, "flat store put")

	if len(tags) > 0 {
		return fmt.Errorf("tags not supported")
	}
	if !json.Valid(value) {
		return fmt.Errorf("value for %s is not JSON", key)
	}

	m := try.To1(s.loadMap())
	m[key] = json.RawMessage(value)
	return s.saveMap(m)
}

func (s *flatStore) Get(key string) (value []byte, err error) {
	defer err2.Handle(&err, "flat store get")

	m := try.To1(s.loadMap())
	v, ok := m[key]
	if !ok {
		return nil, storage.ErrDataNotFound
	}
	return v, nil
}

func (s *flatStore) GetTags(string) ([]storage.Tag, error) {
	return nil, fmt.Errorf("tags not supported")
}

// GetBulk returns a value slice matching the key slice, nil for the keys
// that have no data.
func (s *flatStore) GetBulk(keys ...string) (values [][]byte, err error) {
	defer err2.Handle(&err, "flat store get bulk")

	m := try.To1(s.loadMap())
	values = make([][]byte, len(keys))
	for i, k := range keys {
		if v, ok := m[k]; ok {
			values[i] = v
		}
	}
	return values, nil
}

func (s *flatStore) Query(string, ...storage.QueryOption) (storage.Iterator, error) {
	return nil, fmt.Errorf("queries not supported")
}

func (s *flatStore) Delete(key string) (err error) {
	defer err2.Handle(&err, "flat store delete")

	m := try.To1(s.loadMap())
	if _, ok := m[key]; !ok {
		return nil
	}
	delete(m, key)
	return s.saveMap(m)
}

// Batch applies the operations as one load-modify-write so the router sees a
// single write event for the whole batch.
func (s *flatStore) Batch(operations []storage.Operation) (err error) {
	defer err2.Handle(&err, "flat store batch")

	m := try.To1(s.loadMap())
	for _, op := range operations {
		if op.Value == nil {
			delete(m, op.Key)
			continue
		}
		if !json.Valid(op.Value) {
			return fmt.Errorf("value for %s is not JSON", op.Key)
		}
		m[op.Key] = json.RawMessage(op.Value)
	}
	return s.saveMap(m)
}

func (s *flatStore) Flush() error {
	return nil
}

func (s *flatStore) Close() error {
	return nil
}
