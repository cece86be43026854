package storage

import (
	"net/url"
	"strconv"
	"time"
)

const amzDateLayout = "20060102T150405Z"

// IsSignedURLExpired reports whether a presigned URL's embedded expiry has
// passed. The decision is derived entirely from the URL's own X-Amz-Date and
// X-Amz-Expires parameters; a URL that cannot be parsed is treated as
// expired so it gets re-minted.
func IsSignedURLExpired(signedURL string) bool {
	return isSignedURLExpiredAt(signedURL, time.Now())
}

func isSignedURLExpiredAt(signedURL string, now time.Time) bool {
	u, err := url.Parse(signedURL)
	if err != nil {
		return true
	}

	query := u.Query()
	signedAt, err := time.Parse(amzDateLayout, query.Get("X-Amz-Date"))
	if err != nil {
		return true
	}

	ttlSeconds, err := strconv.ParseInt(query.Get("X-Amz-Expires"), 10, 64)
	if err != nil {
		return true
	}

	expiresAt := signedAt.Add(time.Duration(ttlSeconds) * time.Second)
	return !now.Before(expiresAt)
}
