package common

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
)

func HmacHash(str string, secret []byte) string {
	h := hmac.New(sha512.New, secret)
	h.Write([]byte(str))
	return hex.EncodeToString(h.Sum(nil))
}

func HmacSha256Base64(str string, secret []byte) string {
	h := hmac.New(sha256.New, secret)
	h.Write([]byte(str))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}
