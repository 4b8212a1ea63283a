package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInitDataMalformed means initData could not be parsed or lacks fields.
	ErrInitDataMalformed = errors.New("malformed init data")
	// ErrInitDataSignature means the hash does not match the bot token.
	ErrInitDataSignature = errors.New("invalid init data signature")
	// ErrInitDataExpired means auth_date is older than the allowed age.
	ErrInitDataExpired = errors.New("init data expired")
)

// ValidateInitData verifies Mini App initData signed with botToken and
// returns the embedded user. maxAge <= 0 disables the freshness check.
func ValidateInitData(initData, botToken string, maxAge time.Duration, now time.Time) (*User, error) {
	vals, err := url.ParseQuery(initData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInitDataMalformed, err)
	}
	got := vals.Get("hash")
	if got == "" {
		return nil, fmt.Errorf("%w: missing hash", ErrInitDataMalformed)
	}
	want := SignInitData(vals, botToken)
	gotRaw, err := hex.DecodeString(got)
	if err != nil || !hmac.Equal(gotRaw, want) {
		return nil, ErrInitDataSignature
	}

	authDate, err := strconv.ParseInt(vals.Get("auth_date"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: auth_date", ErrInitDataMalformed)
	}
	if maxAge > 0 && now.Sub(time.Unix(authDate, 0)) > maxAge {
		return nil, ErrInitDataExpired
	}

	var u User
	if err := json.Unmarshal([]byte(vals.Get("user")), &u); err != nil || u.ID <= 0 {
		return nil, fmt.Errorf("%w: user", ErrInitDataMalformed)
	}
	return &u, nil
}

// SignInitData computes the initData HMAC over every field except hash.
func SignInitData(vals url.Values, botToken string) []byte {
	keys := make([]string, 0, len(vals))
	for k := range vals {
		if k != "hash" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+vals.Get(k))
	}

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))
	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(strings.Join(lines, "\n")))
	return mac.Sum(nil)
}
