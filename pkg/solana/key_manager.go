package solana

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/blocto/solana-go-sdk/types"
	solanago "github.com/gagliardetto/solana-go"
)

const keystoreDir = "configs/keystore"

// KeyStoreEntry is one encrypted keypair on disk.
type KeyStoreEntry struct {
	Address      string `json:"address"`
	EncryptedKey string `json:"encrypted_key"`
	Version      int    `json:"version"`
}

// EphemeralKey is a one-shot signing key generated per launch: the config
// authority and the mint authority of a new pool. The private key lives
// only for the duration of the prepare stage and is never stored.
type EphemeralKey struct {
	PublicKey  solanago.PublicKey
	PrivateKey solanago.PrivateKey
}

// KeyManager generates launch keys and manages the operator keystore
// (the fee-claimer wallet).
type KeyManager struct {
	dir string
}

// NewKeyManager creates a new KeyManager instance
func NewKeyManager() *KeyManager {
	return &KeyManager{dir: keystoreDir}
}

// GenerateEphemeralKey generates a fresh keypair for use as a launch
// authority.
func (km *KeyManager) GenerateEphemeralKey() (*EphemeralKey, error) {
	account := types.NewAccount()
	pub := solanago.PublicKeyFromBytes(account.PublicKey.Bytes())
	return &EphemeralKey{
		PublicKey:  pub,
		PrivateKey: solanago.PrivateKey(account.PrivateKey),
	}, nil
}

// EncryptPrivateKey encrypts a private key using AES-256-GCM
func (km *KeyManager) EncryptPrivateKey(privateKey []byte, password string) (string, error) {
	key := deriveKey(password)
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	// Combine nonce and ciphertext for storage
	ciphertext := gcm.Seal(nonce, nonce, privateKey, nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// DecryptPrivateKey decrypts a private key using AES-256-GCM
func (km *KeyManager) DecryptPrivateKey(encryptedKey string, password string) ([]byte, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(encryptedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}

	key := deriveKey(password)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce := ciphertext[:gcm.NonceSize()]
	ciphertext = ciphertext[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}

	return plaintext, nil
}

// SaveOperatorKey encrypts and stores the operator wallet under its
// address in the keystore directory.
func (km *KeyManager) SaveOperatorKey(account *types.Account, password string) error {
	encrypted, err := km.EncryptPrivateKey(account.PrivateKey, password)
	if err != nil {
		return fmt.Errorf("failed to encrypt private key: %w", err)
	}

	address := account.PublicKey.ToBase58()
	entry := KeyStoreEntry{
		Address:      address,
		EncryptedKey: encrypted,
		Version:      1,
	}

	jsonData, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal keystore entry: %w", err)
	}

	if err := os.MkdirAll(km.dir, 0700); err != nil {
		return fmt.Errorf("failed to create keystore directory: %w", err)
	}

	filename := filepath.Join(km.dir, address+".json")
	if err := os.WriteFile(filename, jsonData, 0600); err != nil {
		return fmt.Errorf("failed to write keystore entry to file: %w", err)
	}

	return nil
}

// LoadOperatorKey loads and decrypts the operator wallet stored under the
// given address.
func (km *KeyManager) LoadOperatorKey(address string, password string) (*types.Account, error) {
	filename := filepath.Join(km.dir, address+".json")

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read keystore entry: %w", err)
	}

	var entry KeyStoreEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal keystore entry: %w", err)
	}

	if entry.Address != address {
		return nil, fmt.Errorf("address mismatch: expected %s, got %s", address, entry.Address)
	}

	privateKey, err := km.DecryptPrivateKey(entry.EncryptedKey, password)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt private key: %w", err)
	}

	account, err := types.AccountFromBytes(privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create account from private key: %w", err)
	}

	return &account, nil
}

// ResolveOperatorKey loads the operator wallet for the given address,
// importing it from the base58 privateKey into the keystore first when
// one is supplied. This is how the fee-claimer wallet is provisioned on
// first boot and reloaded on every boot after.
func (km *KeyManager) ResolveOperatorKey(address, privateKey, password string) (*types.Account, error) {
	if privateKey != "" {
		account, err := types.AccountFromBase58(privateKey)
		if err != nil {
			return nil, fmt.Errorf("invalid operator private key: %w", err)
		}
		if account.PublicKey.ToBase58() != address {
			return nil, fmt.Errorf("operator private key does not match address %s", address)
		}
		if err := km.SaveOperatorKey(&account, password); err != nil {
			return nil, err
		}
	}

	account, err := km.LoadOperatorKey(address, password)
	if err != nil {
		return nil, err
	}
	if account.PublicKey.ToBase58() != address {
		return nil, fmt.Errorf("keystore entry for %s decrypts to a different key", address)
	}
	return account, nil
}

// deriveKey creates a 32-byte key from a password using SHA-256
func deriveKey(password string) []byte {
	hash := sha256.Sum256([]byte(password))
	return hash[:]
}
