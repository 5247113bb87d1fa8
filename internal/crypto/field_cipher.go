// Package crypto provides field-level encryption at rest for the small set
// of personally identifiable booking and customer fields. Values are stored
// as tagged, base64-encoded AES-256-CBC ciphertext alongside ordinary
// columns; the tag prefix lets read paths distinguish ciphertext from
// legacy plaintext, so encryption can be rolled out without a migration.
package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"github.com/stagebook/stagebook-api/internal/models"
	"github.com/stagebook/stagebook-api/pkg/logger"
)

const (
	// encryptedPrefix tags stored ciphertext. A value without this prefix is
	// treated as plaintext and passed through unchanged.
	encryptedPrefix = "ENC:"

	keyIterations = 10000
	keyLength     = 32

	// Substituted when the corresponding secret is not configured, so key
	// derivation always succeeds. Development convenience only.
	fallbackAuthKey  = "stagebook-insecure-auth-key"
	fallbackAuthSalt = "stagebook-insecure-auth-salt"

	derivationSalt = "stagebook-field-cipher-v1"
)

// FieldCipher encrypts and decrypts sensitive record fields with a key
// derived once from the two long-lived application secrets.
//
// Both Encrypt and Decrypt fail open: on any internal error the input is
// returned unchanged so a booking or customer write is never blocked by the
// crypto layer. Failures are logged.
type FieldCipher struct {
	key []byte
}

// NewFieldCipher derives the symmetric key from the two secrets via
// PBKDF2-SHA256 (10,000 iterations, 32-byte output). Missing secrets are
// replaced by fixed fallbacks rather than failing.
func NewFieldCipher(authKey, authSalt string) *FieldCipher {
	if authKey == "" {
		authKey = fallbackAuthKey
	}
	if authSalt == "" {
		authSalt = fallbackAuthSalt
	}
	key := pbkdf2.Key([]byte(authKey+authSalt), []byte(derivationSalt), keyIterations, keyLength, sha256.New)
	return &FieldCipher{key: key}
}

// IsEncrypted reports whether value carries the ciphertext tag
func (c *FieldCipher) IsEncrypted(value string) bool {
	return strings.HasPrefix(value, encryptedPrefix)
}

// Encrypt returns the tagged ciphertext for plaintext. Empty or
// already-tagged input is returned unchanged, so double encryption cannot
// occur. A fresh random IV is generated for every call.
func (c *FieldCipher) Encrypt(plaintext string) string {
	if plaintext == "" || c.IsEncrypted(plaintext) {
		return plaintext
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		logger.Warn("field cipher: encryption failed, storing plaintext", "error", err)
		return plaintext
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		logger.Warn("field cipher: encryption failed, storing plaintext", "error", err)
		return plaintext
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return encryptedPrefix + base64.StdEncoding.EncodeToString(append(iv, ciphertext...))
}

// Decrypt reverses Encrypt. Untagged input is returned unchanged. Malformed
// base64, a truncated payload or a padding failure all return the original
// tagged value rather than an error.
func (c *FieldCipher) Decrypt(value string) string {
	if value == "" || !c.IsEncrypted(value) {
		return value
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, encryptedPrefix))
	if err != nil {
		logger.Warn("field cipher: stored value failed base64 decode")
		return value
	}
	if len(decoded) < aes.BlockSize || len(decoded)%aes.BlockSize != 0 {
		logger.Warn("field cipher: stored value has invalid length")
		return value
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		logger.Warn("field cipher: decryption failed", "error", err)
		return value
	}

	iv := decoded[:aes.BlockSize]
	ciphertext := decoded[aes.BlockSize:]
	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := pkcs7Unpad(plaintext, aes.BlockSize)
	if err != nil {
		logger.Warn("field cipher: stored value failed padding check")
		return value
	}
	return string(unpadded)
}

// BookingSensitiveFields returns the booking fields encrypted at rest
func BookingSensitiveFields() []string {
	return []string{"event_address", "event_zip"}
}

// CustomerSensitiveFields returns the customer fields encrypted at rest
func CustomerSensitiveFields() []string {
	return []string{"phone", "billing_phone"}
}

// EncryptFields encrypts each named field present and non-empty in values.
// Fields absent, empty or not in the list are left untouched.
func (c *FieldCipher) EncryptFields(values map[string]string, fields []string) {
	for _, name := range fields {
		if v, ok := values[name]; ok && v != "" {
			values[name] = c.Encrypt(v)
		}
	}
}

// DecryptFields is the read-path counterpart of EncryptFields
func (c *FieldCipher) DecryptFields(values map[string]string, fields []string) {
	for _, name := range fields {
		if v, ok := values[name]; ok && v != "" {
			values[name] = c.Decrypt(v)
		}
	}
}

// EncryptBookingData applies the booking field allowlist to a change map
func (c *FieldCipher) EncryptBookingData(values map[string]string) {
	c.EncryptFields(values, BookingSensitiveFields())
}

// DecryptBookingData reverses EncryptBookingData
func (c *FieldCipher) DecryptBookingData(values map[string]string) {
	c.DecryptFields(values, BookingSensitiveFields())
}

// EncryptBooking encrypts the sensitive fields of a booking in place
func (c *FieldCipher) EncryptBooking(b *models.Booking) {
	encryptPtr(c, b.EventAddress)
	encryptPtr(c, b.EventZip)
}

// DecryptBooking decrypts the sensitive fields of a booking in place
func (c *FieldCipher) DecryptBooking(b *models.Booking) {
	decryptPtr(c, b.EventAddress)
	decryptPtr(c, b.EventZip)
}

// EncryptCustomer encrypts the sensitive fields of a user in place
func (c *FieldCipher) EncryptCustomer(u *models.User) {
	encryptPtr(c, u.Phone)
	encryptPtr(c, u.BillingPhone)
}

// DecryptCustomer decrypts the sensitive fields of a user in place
func (c *FieldCipher) DecryptCustomer(u *models.User) {
	decryptPtr(c, u.Phone)
	decryptPtr(c, u.BillingPhone)
}

func encryptPtr(c *FieldCipher, v *string) {
	if v != nil && *v != "" {
		*v = c.Encrypt(*v)
	}
}

func decryptPtr(c *FieldCipher, v *string) {
	if v != nil && *v != "" {
		*v = c.Decrypt(*v)
	}
}

var errInvalidPadding = errors.New("invalid PKCS#7 padding")

func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(padLen)}, padLen)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, errInvalidPadding
	}
	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > blockSize || padLen > len(data) {
		return nil, errInvalidPadding
	}
	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, errInvalidPadding
		}
	}
	return data[:len(data)-padLen], nil
}
