// Package upload issues time-limited, HMAC-signed write URLs for direct
// image uploads to object storage. The issuer never touches entity storage;
// persisting the returned public URL is the caller's job.
package upload

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxFileSize is the largest accepted upload, 5 MiB.
const MaxFileSize = 5 * 1024 * 1024

// DefaultTTL is how long an issued write URL stays valid.
const DefaultTTL = 300 * time.Second

var (
	// ErrUnsupportedType is returned for non-image content types.
	ErrUnsupportedType = errors.New("only image uploads are allowed")
	// ErrTooLarge is returned when the declared size exceeds MaxFileSize.
	ErrTooLarge = errors.New("file size exceeds the 5MB limit")
)

var extensions = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

// PresignedURL is the issued pair: a write-capable URL and the public URL
// the object will be served from.
type PresignedURL struct {
	UploadURL string `json:"upload_url"`
	PublicURL string `json:"public_url"`
}

// Issuer signs upload URLs against a single storage endpoint.
type Issuer struct {
	Endpoint     string
	PublicDomain string
	KeyPrefix    string
	Secret       string
	TTL          time.Duration

	// now is swappable for tests
	now func() time.Time
}

// NewIssuer builds an Issuer with the default TTL.
func NewIssuer(endpoint, publicDomain, keyPrefix, secret string) *Issuer {
	return &Issuer{
		Endpoint:     strings.TrimSuffix(endpoint, "/"),
		PublicDomain: strings.TrimSuffix(publicDomain, "/"),
		KeyPrefix:    keyPrefix,
		Secret:       secret,
		TTL:          DefaultTTL,
		now:          time.Now,
	}
}

// Issue validates the declared content type and size and returns a signed
// write URL plus the derived public URL. Checks run in order; the first
// failure wins and no URL is generated.
func (i *Issuer) Issue(fileType string, fileSize int64) (*PresignedURL, error) {
	if !strings.HasPrefix(fileType, "image/") {
		return nil, ErrUnsupportedType
	}
	if fileSize > MaxFileSize {
		return nil, ErrTooLarge
	}

	key := i.KeyPrefix + uuid.NewString() + extensionFor(fileType)
	expires := i.now().Add(i.ttl()).Unix()
	signature := i.sign(key, expires)

	return &PresignedURL{
		UploadURL: fmt.Sprintf("%s/%s?expires=%d&signature=%s", i.Endpoint, key, expires, signature),
		PublicURL: i.PublicDomain + "/" + key,
	}, nil
}

func (i *Issuer) ttl() time.Duration {
	if i.TTL <= 0 {
		return DefaultTTL
	}
	return i.TTL
}

// sign computes the hex HMAC-SHA256 over the key and expiry timestamp.
func (i *Issuer) sign(key string, expires int64) string {
	mac := hmac.New(sha256.New, []byte(i.Secret))
	fmt.Fprintf(mac, "%s\n%d", key, expires)
	return hex.EncodeToString(mac.Sum(nil))
}

func extensionFor(fileType string) string {
	if ext, ok := extensions[fileType]; ok {
		return ext
	}
	return ".bin"
}
