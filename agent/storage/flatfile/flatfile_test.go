package flatfile

import (
	"errors"
	"flag"
	"os"
	"testing"

	"github.com/hyperledger/aries-framework-go/spi/storage"
	"github.com/idvault/vault-agent/agent/active"
	"github.com/idvault/vault-agent/agent/vault"
	"github.com/idvault/vault-agent/agent/vfs"
	"github.com/lainio/err2/assert"
	"github.com/lainio/err2/try"
)

func TestMain(m *testing.M) {
	setUp()
	code := m.Run()
	os.Exit(code)
}

func setUp() {
	try.To(flag.Set("logtostderr", "true"))
	try.To(flag.Set("stderrthreshold", "WARNING"))
	flag.Parse()
}

func newProvider(t *testing.T) (*Provider, *active.Ctx, *[]vfs.Event) {
	t.Helper()

	events := new([]vfs.Event)
	actx := active.New()
	router := vfs.New(t.TempDir(), actx, func(e vfs.Event) {
		*events = append(*events, e)
	})
	return New(router), actx, events
}

func TestOpenStore(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	p, _, _ := newProvider(t)

	for _, name := range []string{
		NameKey, NamePrivateKey, NameDID, NameCredential,
	} {
		s := try.To1(p.OpenStore(name))
		assert.INotNil(s)
	}
	assert.SLen(p.GetOpenStores(), 4)

	// the same name returns the same store
	s1 := try.To1(p.OpenStore(NameKey))
	s2 := try.To1(p.OpenStore(NameKey))
	assert.That(s1 == s2)

	_, err := p.OpenStore("unknown")
	assert.Error(err)
}

func TestStoreConfigsUnsupported(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	p, _, _ := newProvider(t)
	assert.Error(p.SetStoreConfig(NameKey, storage.StoreConfiguration{}))
	_, err := p.GetStoreConfig(NameKey)
	assert.Error(err)
}

func TestPutGetDelete(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	p, actx, _ := newProvider(t)
	actx.Set("alice")

	s := try.To1(p.OpenStore(NameDID))
	assert.NoError(s.Put("did:key:z6Mk", []byte(`{"id":"did:key:z6Mk"}`)))

	v := try.To1(s.Get("did:key:z6Mk"))
	assert.Equal(`{"id":"did:key:z6Mk"}`, string(v))

	_, err := s.Get("did:key:other")
	assert.That(errors.Is(err, storage.ErrDataNotFound))

	assert.NoError(s.Delete("did:key:z6Mk"))
	_, err = s.Get("did:key:z6Mk")
	assert.That(errors.Is(err, storage.ErrDataNotFound))

	// deleting an absent key is a no-op
	assert.NoError(s.Delete("did:key:z6Mk"))
}

func TestPutRejectsBadInput(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	p, actx, _ := newProvider(t)
	actx.Set("bob")

	s := try.To1(p.OpenStore(NameKey))
	assert.Error(s.Put("kid-1", []byte(`not json`)))
	assert.Error(s.Put("kid-1", []byte(`{}`),
		storage.Tag{Name: "t", Value: "v"}))
}

func TestPutWithoutActiveVault(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	p, _, _ := newProvider(t)

	s := try.To1(p.OpenStore(NameKey))
	err := s.Put("kid-1", []byte(`{}`))
	assert.That(errors.Is(err, vault.ErrNoActiveVault))
}

func TestGetBulk(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	p, actx, _ := newProvider(t)
	actx.Set("carol")

	s := try.To1(p.OpenStore(NameCredential))
	assert.NoError(s.Put("3732", []byte(`{"id":"cred/3732"}`)))
	assert.NoError(s.Put("3733", []byte(`{"id":"cred/3733"}`)))

	values := try.To1(s.GetBulk("3732", "missing", "3733"))
	assert.SLen(values, 3)
	assert.Equal(`{"id":"cred/3732"}`, string(values[0]))
	assert.SNil(values[1])
	assert.Equal(`{"id":"cred/3733"}`, string(values[2]))
}

func TestBatchIsOneWrite(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	p, actx, events := newProvider(t)
	actx.Set("dave")

	s := try.To1(p.OpenStore(NamePrivateKey))
	assert.NoError(s.Put("gone", []byte(`{"alias":"gone"}`)))

	writesBefore := countWrites(*events)
	assert.NoError(s.Batch([]storage.Operation{
		{Key: "a1", Value: []byte(`{"alias":"a1"}`)},
		{Key: "a2", Value: []byte(`{"alias":"a2"}`)},
		{Key: "gone", Value: nil}, // nil value deletes
	}))
	assert.Equal(writesBefore+1, countWrites(*events))

	_, err := s.Get("gone")
	assert.That(errors.Is(err, storage.ErrDataNotFound))
	v := try.To1(s.Get("a2"))
	assert.Equal(`{"alias":"a2"}`, string(v))
}

func countWrites(events []vfs.Event) (n int) {
	for _, e := range events {
		if e.Op == vfs.OpWrite {
			n++
		}
	}
	return n
}

func TestUnsupportedOps(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	p, actx, _ := newProvider(t)
	actx.Set("erin")

	s := try.To1(p.OpenStore(NameKey))
	_, err := s.GetTags("kid-1")
	assert.Error(err)
	_, err = s.Query("expr")
	assert.Error(err)

	assert.NoError(s.Flush())
	assert.NoError(s.Close())
	assert.NoError(p.Close())
}
