package enclave

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

const dbFilename = "enclave.bolt"

const vaultID = "test-vault"
const vaultNotCreated = "no-such-vault"

func TestMain(m *testing.M) {
	setUp()
	code := m.Run()
	tearDown()
	os.Exit(code)
}

func setUp() {
	_ = os.RemoveAll(dbFilename)
	_ = InitSealedBox(dbFilename)
}

func tearDown() {
	WipeSealedBox()
}

func TestNewVaultKey(t *testing.T) {
	k, err := NewVaultKey(vaultID)
	assert.NoError(t, err)
	assert.NotEmpty(t, k)

	k2, err := VaultKeyByID(vaultID)
	assert.NoError(t, err)
	assert.Equal(t, k, k2)

	k, err = NewVaultKey(vaultID)
	assert.Error(t, err)
	assert.Empty(t, k)
}

func TestVaultKeyByID(t *testing.T) {
	const vaultID = "test-vault-2"

	_, err := NewVaultKey(vaultID)
	assert.NoError(t, err)

	key, err := VaultKeyByID(vaultID)
	assert.NoError(t, err)
	assert.NotEmpty(t, key)

	key, err = VaultKeyByID(vaultNotCreated)
	assert.Equal(t, ErrNotExists, err)
	assert.Empty(t, key)
}

func TestVaultKeyExists(t *testing.T) {
	const vaultID = "test-vault-3"

	exists := VaultKeyExists(vaultID)
	assert.False(t, exists, "key not created yet")

	_, err := NewVaultKey(vaultID)
	assert.NoError(t, err)

	exists = VaultKeyExists(vaultID)
	assert.True(t, exists, "key just created")
}

func TestRmVaultKey(t *testing.T) {
	const vaultID = "test-vault-4"

	_, err := NewVaultKey(vaultID)
	assert.NoError(t, err)
	assert.True(t, VaultKeyExists(vaultID))

	err = RmVaultKey(vaultID)
	assert.NoError(t, err)
	assert.False(t, VaultKeyExists(vaultID))

	// removing an absent key is not an error
	err = RmVaultKey(vaultID)
	assert.NoError(t, err)

	// a missing key is the only state a new key may be generated in
	k, err := NewVaultKey(vaultID)
	assert.NoError(t, err)
	assert.NotEmpty(t, k)
}

func TestInitialized(t *testing.T) {
	assert.True(t, Initialized())
}

func TestBackup(t *testing.T) {
	const backupFile = "enclave_backup.bolt"
	defer func() { _ = os.RemoveAll(backupFile) }()

	err := Backup(backupFile)
	assert.NoError(t, err)

	info, err := os.Stat(backupFile)
	assert.NoError(t, err)
	assert.True(t, info.Size() > 0)
}
