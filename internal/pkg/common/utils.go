package common

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// HashTokens 計算 token 列表的 SHA-256 哈希值，用於快取鍵
func HashTokens(tokens []string) string {
	hash := sha256.Sum256([]byte(strings.Join(tokens, "\x1f")))
	return hex.EncodeToString(hash[:])
}
