package solana

import (
	"bytes"
	"testing"

	"github.com/blocto/solana-go-sdk/types"
	solanago "github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyManager(t *testing.T) {
	km := NewKeyManager()

	t.Run("Generate Ephemeral Key", func(t *testing.T) {
		key, err := km.GenerateEphemeralKey()
		require.NoError(t, err)
		assert.NotNil(t, key)
		assert.False(t, key.PublicKey.IsZero())
		assert.Equal(t, 64, len(key.PrivateKey), "Private key should be 64 bytes")

		// the gagliardetto private key must derive the same public key
		assert.Equal(t, key.PublicKey, key.PrivateKey.PublicKey())
	})

	t.Run("Ephemeral Keys Are Unique", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 10; i++ {
			key, err := km.GenerateEphemeralKey()
			require.NoError(t, err)

			address := key.PublicKey.String()
			assert.False(t, seen[address], "Generated duplicate address")
			seen[address] = true
		}
	})

	t.Run("Encrypt and Decrypt Private Key", func(t *testing.T) {
		account := types.NewAccount()

		password := "test-password"
		encrypted, err := km.EncryptPrivateKey(account.PrivateKey, password)
		require.NoError(t, err)
		assert.NotEmpty(t, encrypted)

		decrypted, err := km.DecryptPrivateKey(encrypted, password)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(account.PrivateKey[:], decrypted), "Decrypted private key should match original")
	})

	t.Run("Error Cases", func(t *testing.T) {
		account := types.NewAccount()

		encrypted, err := km.EncryptPrivateKey(account.PrivateKey, "password1")
		require.NoError(t, err)

		_, err = km.DecryptPrivateKey(encrypted, "password2")
		assert.Error(t, err)

		_, err = km.LoadOperatorKey("nonexistent", "password1")
		assert.Error(t, err)
	})
}

func TestOperatorKeystore(t *testing.T) {
	km := &KeyManager{dir: t.TempDir()}
	password := "keystore-password"

	account := types.NewAccount()
	address := account.PublicKey.ToBase58()
	privBase58 := solanago.PrivateKey(account.PrivateKey).String()

	t.Run("Save and Load Round Trip", func(t *testing.T) {
		require.NoError(t, km.SaveOperatorKey(&account, password))

		loaded, err := km.LoadOperatorKey(address, password)
		require.NoError(t, err)
		assert.Equal(t, address, loaded.PublicKey.ToBase58())
		assert.True(t, bytes.Equal(account.PrivateKey[:], loaded.PrivateKey[:]))
	})

	t.Run("Resolve Imports Then Loads", func(t *testing.T) {
		fresh := &KeyManager{dir: t.TempDir()}

		// First boot: the private key is imported into the keystore.
		resolved, err := fresh.ResolveOperatorKey(address, privBase58, password)
		require.NoError(t, err)
		assert.Equal(t, address, resolved.PublicKey.ToBase58())

		// Later boots: the key loads without the import env set.
		resolved, err = fresh.ResolveOperatorKey(address, "", password)
		require.NoError(t, err)
		assert.Equal(t, address, resolved.PublicKey.ToBase58())
	})

	t.Run("Resolve Rejects Mismatched Key", func(t *testing.T) {
		other := types.NewAccount()
		_, err := km.ResolveOperatorKey(other.PublicKey.ToBase58(), privBase58, password)
		assert.Error(t, err)
	})

	t.Run("Resolve Fails Without Stored Entry", func(t *testing.T) {
		empty := &KeyManager{dir: t.TempDir()}
		_, err := empty.ResolveOperatorKey(address, "", password)
		assert.Error(t, err)
	})
}
