package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pobyzaarif/goshortcute"
)

var (
	ErrSealedMalformed = errors.New("invalid sealed value")
	ErrSealedExpired   = errors.New("sealed value expired")
)

// SealValue encrypts value with AES-CBC under key and base64-encodes the
// result so it can travel in a cookie.
func SealValue(value, key string) (string, error) {
	encrypted, err := goshortcute.AESCBCEncrypt([]byte(value), []byte(key))
	if err != nil {
		return "", err
	}
	return goshortcute.StringtoBase64Encode(encrypted), nil
}

func OpenValue(sealed, key string) (string, error) {
	if sealed == "" {
		return "", errors.New("empty sealed value")
	}
	decoded := goshortcute.StringtoBase64Decode(sealed)
	if decoded == "" {
		return "", ErrSealedMalformed
	}
	return goshortcute.AESCBCDecrypt([]byte(decoded), []byte(key))
}

// SealExpiring seals "value|expAt" so the holder cannot extend it.
func SealExpiring(value, key string, expiresAt time.Time) (string, error) {
	return SealValue(fmt.Sprintf("%v|%v", value, expiresAt.Unix()), key)
}

// OpenExpiring opens a value sealed by SealExpiring and rejects it once now
// is past its expiry.
func OpenExpiring(sealed, key string, now time.Time) (string, error) {
	plain, err := OpenValue(sealed, key)
	if err != nil {
		return "", err
	}

	sep := strings.LastIndexByte(plain, '|')
	if sep < 0 {
		return "", ErrSealedMalformed
	}

	ts, err := strconv.ParseInt(plain[sep+1:], 10, 64)
	if err != nil {
		return "", ErrSealedMalformed
	}
	if now.After(time.Unix(ts, 0)) {
		return "", ErrSealedExpired
	}

	return plain[:sep], nil
}
