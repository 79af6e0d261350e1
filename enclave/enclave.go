/*
Package enclave is the agent's sealed box: a bbolt-backed store for the
opaque per-vault keys the identity toolkit unlocks its material with. The
enclave stores keys, it never derives or wraps them; key cryptography belongs
to the toolkit.
*/
package enclave

import (
	"crypto/rand"
	"errors"
	"os"

	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/mr-tron/base58"
	bolt "go.etcd.io/bbolt"
)

const vaultKeyBucket = "vault_key_bucket"

var sealedBoxFilename string

// InitSealedBox initialize enclave's sealed box. This must be called once
// during the app life cycle.
func InitSealedBox(filename string) (err error) {
	glog.V(1).Info("init enclave ", filename)
	sealedBoxFilename = filename
	return open(filename)
}

// Initialized tells if the sealed box is open. The vault operator provisions
// keys only when it is.
func Initialized() bool {
	return db != nil
}

// WipeSealedBox closes and destroys the enclave permanently. This version
// only removes the sealed box file.
func WipeSealedBox() {
	if db != nil {
		Close()
	}

	err := os.RemoveAll(sealedBoxFilename)
	if err != nil {
		println(err.Error())
	}
}

// NewVaultKey creates and stores a new vault key to the enclave. The key is
// the 32-byte random value in base58, the format the toolkit accepts.
func NewVaultKey(vaultID string) (key string, err error) {
	defer err2.Handle(&err)

	// only a missing key means we may generate one, a real read error
	// must never be papered over with a fresh key
	key, err = getKeyValueFromBucket(vaultKeyBucket, vaultID)
	if err != nil && !errors.Is(err, ErrNotExists) {
		return "", err
	}
	if key != "" {
		return "", errors.New("vault key already exists")
	}

	key = generateKey()
	try.To(addKeyValueToBucket(vaultKeyBucket, key, vaultID))

	return key, nil
}

// VaultKeyExists returns true if a key for the vault is in the enclave.
func VaultKeyExists(vaultID string) bool {
	k, err := VaultKeyByID(vaultID)
	return err == nil && k != ""
}

// VaultKeyByID retrieves a vault key from the sealed box.
func VaultKeyByID(vaultID string) (key string, err error) {
	return getKeyValueFromBucket(vaultKeyBucket, vaultID)
}

// RmVaultKey removes a vault's key from the sealed box. Called when the
// vault is deleted.
func RmVaultKey(vaultID string) (err error) {
	return rmKeyValueFromBucket(vaultKeyBucket, vaultID)
}

// Backup copies the sealed box to the given file through a read transaction,
// so the copy is consistent even with the box in use.
func Backup(toFile string) (err error) {
	defer err2.Handle(&err, "enclave backup")

	assertDB()
	try.To(db.View(func(tx *bolt.Tx) error {
		return tx.CopyFile(toFile, 0600)
	}))
	glog.V(1).Infoln("enclave backup to:", toFile)
	return nil
}

func generateKey() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		panic("cannot read random bytes")
	}
	return base58.Encode(bytes)
}
