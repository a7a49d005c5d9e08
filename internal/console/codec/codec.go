// Package codec implements the reversible obfuscation applied to session
// values before they reach the client-side key-value store.
//
// The scheme is carried over from the original frontend unchanged: the JSON
// form of the value is encrypted with AES-256-CBC under a key derived from a
// fixed passphrase (the OpenSSL EVP_BytesToKey construction over MD5 with an
// 8-byte random salt), framed as "Salted__" + salt + ciphertext, base64
// encoded, and then base64 encoded a second time. The passphrase ships
// inside the client, so this protects against casual inspection only; it is
// obfuscation, not confidentiality, and is deliberately not strengthened.
package codec

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
)

const passphrase = "C.R.U.D."

const (
	saltedPrefix = "Salted__"
	saltLen      = 8
	keyLen       = 32
)

// Encode serialises v as JSON and obfuscates it into a text-safe string.
func Encode(v any) (string, error) {
	plain, err := json.Marshal(v)
	if err != nil {
		return "", err
	}

	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	key, iv := deriveKeyIV(salt)
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	padded := pkcs7Pad(plain, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	envelope := make([]byte, 0, len(saltedPrefix)+saltLen+len(ciphertext))
	envelope = append(envelope, saltedPrefix...)
	envelope = append(envelope, salt...)
	envelope = append(envelope, ciphertext...)

	inner := base64.StdEncoding.EncodeToString(envelope)
	return base64.StdEncoding.EncodeToString([]byte(inner)), nil
}

// Decode reverses Encode into out. It reports false, leaving out
// untouched, on malformed, foreign, or tampered input. It never panics:
// callers treat a failed decode as "no value".
func Decode(opaque string, out any) bool {
	inner, err := base64.StdEncoding.DecodeString(opaque)
	if err != nil {
		return false
	}
	envelope, err := base64.StdEncoding.DecodeString(string(inner))
	if err != nil {
		return false
	}

	if len(envelope) < len(saltedPrefix)+saltLen ||
		string(envelope[:len(saltedPrefix)]) != saltedPrefix {
		return false
	}
	salt := envelope[len(saltedPrefix) : len(saltedPrefix)+saltLen]
	ciphertext := envelope[len(saltedPrefix)+saltLen:]

	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return false
	}

	key, iv := deriveKeyIV(salt)
	block, err := aes.NewCipher(key)
	if err != nil {
		return false
	}

	plain := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, ciphertext)

	plain, ok := pkcs7Unpad(plain, aes.BlockSize)
	if !ok {
		return false
	}

	return json.Unmarshal(plain, out) == nil
}

// deriveKeyIV is OpenSSL's EVP_BytesToKey with MD5 and one iteration:
// successive digests of (previous digest || passphrase || salt) are
// concatenated until 48 bytes are available for the key and IV.
func deriveKeyIV(salt []byte) (key, iv []byte) {
	var material []byte
	var prev []byte
	for len(material) < keyLen+aes.BlockSize {
		h := md5.New()
		h.Write(prev)
		h.Write([]byte(passphrase))
		h.Write(salt)
		prev = h.Sum(nil)
		material = append(material, prev...)
	}
	return material[:keyLen], material[keyLen : keyLen+aes.BlockSize]
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, bool) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, false
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, false
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, false
		}
	}
	return data[:len(data)-n], true
}
