package zapi

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Credentials identify the caller for JWT auth.
type Credentials struct {
	AccountID string
	AccessKey string
	SecretKey string
}

// QueryStringHash computes the qsh claim: the hex SHA-256 of
// "METHOD&path&canonical-query". Query keys are sorted and multiple values
// for one key are joined with commas.
func QueryStringHash(method, path string, params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+strings.Join(params[k], ","))
	}

	canonical := strings.ToUpper(method) + "&" + path + "&" + strings.Join(pairs, "&")
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}

// GenerateJWT signs an HS256 token for one request. The token is bound to the
// method, path and query through the qsh claim, so it cannot be reused for a
// different request.
func GenerateJWT(creds Credentials, method, path string, params url.Values, now time.Time, ttl time.Duration) (string, error) {
	if creds.AccessKey == "" || creds.SecretKey == "" {
		return "", fmt.Errorf("%w: access key and secret key required", ErrMissingCredentials)
	}
	claims := jwt.MapClaims{
		"sub": creds.AccountID,
		"iss": creds.AccessKey,
		"qsh": QueryStringHash(method, path, params),
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(creds.SecretKey))
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}
