package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"errors"
	"fmt"
)

var (
	ErrInvalidKeyLength = errors.New("aes key must be 16, 24 or 32 bytes")
	ErrInvalidPadding   = errors.New("invalid pkcs7 padding")
	ErrInvalidBlockSize = errors.New("ciphertext is not a multiple of the block size")
)

// EncryptECB 以 AES-ECB + PKCS7 加密後輸出 base64（登入平台要求的格式）
func EncryptECB(key, plaintext string) (string, error) {
	block, err := newBlock(key)
	if err != nil {
		return "", err
	}
	size := block.BlockSize()
	data := pkcs7Pad([]byte(plaintext), size)
	out := make([]byte, len(data))
	for i := 0; i < len(data); i += size {
		block.Encrypt(out[i:i+size], data[i:i+size])
	}
	return base64.StdEncoding.EncodeToString(out), nil
}

// DecryptECB 為 EncryptECB 的反向
func DecryptECB(key, ciphertext string) (string, error) {
	block, err := newBlock(key)
	if err != nil {
		return "", err
	}
	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("decode base64: %w", err)
	}
	size := block.BlockSize()
	if len(data) == 0 || len(data)%size != 0 {
		return "", ErrInvalidBlockSize
	}
	out := make([]byte, len(data))
	for i := 0; i < len(data); i += size {
		block.Decrypt(out[i:i+size], data[i:i+size])
	}
	plain, err := pkcs7Unpad(out, size)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

func newBlock(key string) (cipher.Block, error) {
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, ErrInvalidKeyLength
	}
	return aes.NewCipher([]byte(key))
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(padding)}, padding)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, ErrInvalidPadding
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrInvalidPadding
		}
	}
	return data[:len(data)-n], nil
}
