package helpers

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	mrand "math/rand"
	"time"
)

const letterBytes = "abcdefghijklmnopqrstuvwxyz"

func randomLetters(n int) string {
	src := mrand.New(mrand.NewSource(time.Now().UnixNano()))
	b := make([]byte, n)
	for i := range b {
		b[i] = letterBytes[src.Intn(len(letterBytes))]
	}
	return string(b)
}

func GenerateMerchantCode() string {
	return "M" + randomLetters(5)
}

func GenerateSecretKey() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return randomLetters(64)
	}
	return hex.EncodeToString(b)
}

// Sign computes the merchant request signature: hex HMAC-SHA256 of the raw
// request body keyed with the merchant secret.
func Sign(secret string, body []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}
