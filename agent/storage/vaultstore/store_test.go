package vaultstore

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/idvault/vault-agent/agent/storage/api"
	"github.com/idvault/vault-agent/agent/vault"
	"github.com/lainio/err2/assert"
	"github.com/lainio/err2/try"
)

var (
	testDir string
	store   *Store
)

func TestMain(m *testing.M) {
	setUp()
	code := m.Run()
	tearDown()
	os.Exit(code)
}

func setUp() {
	try.To(flag.Set("logtostderr", "true"))
	try.To(flag.Set("stderrthreshold", "WARNING"))
	flag.Parse()

	testDir = try.To1(os.MkdirTemp("", "vaultstore_test"))
	store = New(api.VaultStorageConfig{StoreDir: filepath.Join(testDir, "store")})
}

func tearDown() {
	_ = os.RemoveAll(testDir)
}

func TestCreateAndGet(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	v := vault.New("alice")
	assert.NoError(store.Create(v))

	got, err := store.Get("alice")
	assert.NoError(err)
	assert.Equal("alice", got.ID)
	assert.SLen(got.DIDStore, 0)
	assert.SLen(got.KeyStore, 0)
	assert.SLen(got.PrivateKeyStore, 0)
	assert.SLen(got.VCStore, 0)
	assert.ThatNot(got.CreatedAt.IsZero())
}

func TestCreateCollision(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	first := vault.New("bob")
	first.DIDStore = []vault.Record{{"id": "did:key:bob"}}
	assert.NoError(store.Create(first))

	err := store.Create(vault.New("bob"))
	assert.That(errors.Is(err, vault.ErrAlreadyExists))

	// the stored record from the first call is unchanged
	got := try.To1(store.Get("bob"))
	assert.SLen(got.DIDStore, 1)
}

func TestGetNotFound(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	_, err := store.Get("nobody")
	assert.That(errors.Is(err, vault.ErrNotFound))
}

func TestGetCorrupt(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	assert.NoError(store.Create(vault.New("corrupt")))
	try.To(os.WriteFile(store.vaultFile("corrupt"), []byte("{oops"), 0600))

	_, err := store.Get("corrupt")
	assert.Error(err)
	assert.ThatNot(errors.Is(err, vault.ErrNotFound))
}

func TestUpdateReplacesSectionsWholesale(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	v := vault.New("carol")
	v.KeyStore = []vault.Record{{"kid": "kid-1"}}
	assert.NoError(store.Create(v))
	createdAt := try.To1(store.Get("carol")).CreatedAt

	update := &vault.Vault{ID: "carol"}
	update.Set(vault.SectionKey, []vault.Record{
		{"kid": "kid-2"}, {"kid": "kid-3"},
	})
	assert.NoError(store.Update(update))

	got := try.To1(store.Get("carol"))
	assert.SLen(got.KeyStore, 2)
	assert.Equal("kid-2", got.KeyStore[0].StrField("kid"))
	// untouched sections and the creation time stay as they were
	assert.SLen(got.DIDStore, 0)
	assert.That(got.CreatedAt.Equal(createdAt))
}

func TestUpdateNotFound(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	err := store.Update(&vault.Vault{ID: "nobody"})
	assert.That(errors.Is(err, vault.ErrNotFound))
}

func TestUpdateIdentity(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	assert.NoError(store.Create(vault.New("dave")))

	update := &vault.Vault{ID: "dave", Identity: &vault.Identity{
		Alias: "dave",
		DID:   "did:key:dave",
		Kid:   "kid-dave",
	}}
	assert.NoError(store.Update(update))

	got := try.To1(store.Get("dave"))
	assert.NotNil(got.Identity)
	assert.Equal("did:key:dave", got.Identity.DID)
}

func TestDelete(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	assert.NoError(store.Create(vault.New("eve")))
	assert.NoError(store.Delete("eve"))

	_, err := store.Get("eve")
	assert.That(errors.Is(err, vault.ErrNotFound))

	err = store.Delete("eve")
	assert.That(errors.Is(err, vault.ErrNotFound))
}

func TestList(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	empty := New(api.VaultStorageConfig{
		StoreDir: filepath.Join(testDir, "empty-store"),
	})
	vaults := try.To1(empty.List())
	assert.SLen(vaults, 0)

	assert.NoError(empty.Create(vault.New("one")))
	assert.NoError(empty.Create(vault.New("two")))

	vaults = try.To1(empty.List())
	assert.SLen(vaults, 2)
}
