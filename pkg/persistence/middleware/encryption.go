package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/dialogs/pkg/domain"
	"github.com/aretw0/dialogs/pkg/ports"
)

// KeySize is the AES-256 key length in bytes.
const KeySize = 32

// EnvelopeKey is the Values key holding the base64 ciphertext in a stored envelope.
const EnvelopeKey = "__encrypted__"

var (
	// ErrMissingEnvelope is returned when a loaded state carries no ciphertext.
	ErrMissingEnvelope = errors.New("state is missing encrypted data envelope")

	// ErrDecrypt is returned when no configured key opens a stored envelope.
	ErrDecrypt = errors.New("decryption failed with all available keys")
)

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey encrypts every save. Must be KeySize bytes.
	ActiveKey []byte

	// FallbackKeys are tried in order when the active key cannot decrypt,
	// so data written before a rotation stays readable.
	FallbackKeys [][]byte
}

// ParseKey decodes a base64 AES-256 key.
func ParseKey(encoded string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("invalid encryption key encoding: %w", err)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("encryption key must be %d bytes (AES-256), got %d", KeySize, len(key))
	}
	return key, nil
}

type encryptionMiddleware struct {
	next ports.StateStore

	// keys[0] is the active key.
	keys []cipher.AEAD
}

// NewEncryptionMiddleware encrypts whole conversation states with AES-GCM.
// The conversation ID is bound as additional data, so an envelope copied
// under another ID does not decrypt.
// It panics if any key is not KeySize bytes.
func NewEncryptionMiddleware(config EncryptionConfig) Middleware {
	keys := make([]cipher.AEAD, 0, 1+len(config.FallbackKeys))
	for i, k := range append([][]byte{config.ActiveKey}, config.FallbackKeys...) {
		aead, err := newAEAD(k)
		if err != nil {
			panic(fmt.Sprintf("encryption key %d: %v", i, err))
		}
		keys = append(keys, aead)
	}
	return func(next ports.StateStore) ports.StateStore {
		return &encryptionMiddleware{next: next, keys: keys}
	}
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("must be %d bytes (AES-256), got %d", KeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func (m *encryptionMiddleware) Save(ctx context.Context, conversationID string, state *domain.ConversationState) error {
	plain, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	active := m.keys[0]
	nonce := make([]byte, active.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("failed to read nonce: %w", err)
	}
	sealed := active.Seal(nonce, nonce, plain, []byte(conversationID))

	// Bookkeeping stays readable for listing; stack and values live only in the ciphertext.
	envelope := domain.NewConversationState(conversationID)
	envelope.Turns = state.Turns
	envelope.UpdatedAt = state.UpdatedAt
	envelope.Values[EnvelopeKey] = base64.StdEncoding.EncodeToString(sealed)

	return m.next.Save(ctx, conversationID, envelope)
}

func (m *encryptionMiddleware) Load(ctx context.Context, conversationID string) (*domain.ConversationState, error) {
	envelope, err := m.next.Load(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	// Plain states are rejected once encryption is configured.
	encoded, ok := envelope.Values[EnvelopeKey].(string)
	if !ok {
		return nil, ErrMissingEnvelope
	}
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext base64: %w", err)
	}

	plain, err := m.open(sealed, []byte(conversationID))
	if err != nil {
		return nil, err
	}

	var state domain.ConversationState
	if err := json.Unmarshal(plain, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal decrypted state: %w", err)
	}
	if state.Values == nil {
		state.Values = make(map[string]any)
	}
	return &state, nil
}

func (m *encryptionMiddleware) open(sealed, additional []byte) ([]byte, error) {
	for _, aead := range m.keys {
		n := aead.NonceSize()
		if len(sealed) < n {
			return nil, fmt.Errorf("%w: ciphertext too short", ErrDecrypt)
		}
		if plain, err := aead.Open(nil, sealed[:n], sealed[n:], additional); err == nil {
			return plain, nil
		}
	}
	return nil, ErrDecrypt
}

func (m *encryptionMiddleware) Delete(ctx context.Context, conversationID string) error {
	return m.next.Delete(ctx, conversationID)
}

func (m *encryptionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
