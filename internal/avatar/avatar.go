// Package avatar derives gravatar-compatible image URLs from email addresses.
package avatar

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"strconv"
	"strings"
)

const baseURL = "https://www.gravatar.com/avatar/"

// Options selects the image size, rating and fallback image.
type Options struct {
	Size    int
	Rating  string
	Default string
}

// DefaultOptions yields a 200px, pg-rated image falling back to the mystery-person silhouette.
func DefaultOptions() Options {
	return Options{Size: 200, Rating: "pg", Default: "mm"}
}

// URL returns the avatar URL for email using DefaultOptions.
func URL(email string) string {
	return URLWithOptions(email, DefaultOptions())
}

// URLWithOptions is a pure function of its inputs: the same email always maps to the same URL.
func URLWithOptions(email string, opts Options) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))

	q := url.Values{}
	if opts.Size > 0 {
		q.Set("s", strconv.Itoa(opts.Size))
	}
	if opts.Rating != "" {
		q.Set("r", opts.Rating)
	}
	if opts.Default != "" {
		q.Set("d", opts.Default)
	}

	u := baseURL + hex.EncodeToString(sum[:])
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return u
}
