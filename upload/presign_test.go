package upload

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIssuer() *Issuer {
	i := NewIssuer("https://storage.example.com/", "https://cdn.example.com", "uploads/", "secret")
	i.now = func() time.Time { return time.Unix(1_700_000_000, 0) }
	return i
}

func TestIssueRejectsNonImageType(t *testing.T) {
	i := testIssuer()

	for _, fileType := range []string{"application/pdf", "text/html", "video/mp4", ""} {
		got, err := i.Issue(fileType, 1024)
		assert.ErrorIs(t, err, ErrUnsupportedType, "type %q", fileType)
		assert.Nil(t, got, "no URL may be generated for %q", fileType)
	}
}

func TestIssueRejectsOversizedFile(t *testing.T) {
	i := testIssuer()

	got, err := i.Issue("image/png", MaxFileSize+1)
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.Nil(t, got)

	got, err = i.Issue("image/png", MaxFileSize)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestIssueTypeCheckRunsBeforeSizeCheck(t *testing.T) {
	i := testIssuer()

	// Both checks fail; the type violation must win.
	_, err := i.Issue("application/zip", MaxFileSize+1)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestIssueURLShape(t *testing.T) {
	i := testIssuer()

	got, err := i.Issue("image/jpeg", 2048)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got.UploadURL, "https://storage.example.com/uploads/"), got.UploadURL)
	assert.Contains(t, got.UploadURL, ".jpg?expires=")
	assert.Contains(t, got.UploadURL, "&signature=")
	assert.True(t, strings.HasPrefix(got.PublicURL, "https://cdn.example.com/uploads/"), got.PublicURL)
	assert.True(t, strings.HasSuffix(got.PublicURL, ".jpg"), got.PublicURL)
}

func TestIssueExpiryUsesTTL(t *testing.T) {
	i := testIssuer()
	i.TTL = 120 * time.Second

	got, err := i.Issue("image/png", 1)
	require.NoError(t, err)

	wantExpiry := fmt.Sprintf("expires=%d", time.Unix(1_700_000_000, 0).Add(120*time.Second).Unix())
	assert.Contains(t, got.UploadURL, wantExpiry)
}

func TestIssueSignatureIsVerifiable(t *testing.T) {
	i := testIssuer()

	got, err := i.Issue("image/png", 1)
	require.NoError(t, err)

	// Recover key, expiry and signature from the issued URL.
	rest := strings.TrimPrefix(got.UploadURL, "https://storage.example.com/")
	parts := strings.SplitN(rest, "?", 2)
	require.Len(t, parts, 2)
	key := parts[0]

	var expires int64
	var signature string
	for _, kv := range strings.Split(parts[1], "&") {
		if v, ok := strings.CutPrefix(kv, "expires="); ok {
			_, err := fmt.Sscanf(v, "%d", &expires)
			require.NoError(t, err)
		}
		if v, ok := strings.CutPrefix(kv, "signature="); ok {
			signature = v
		}
	}

	mac := hmac.New(sha256.New, []byte("secret"))
	fmt.Fprintf(mac, "%s\n%d", key, expires)
	assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), signature)
}

func TestIssueKeysAreUnique(t *testing.T) {
	i := testIssuer()

	a, err := i.Issue("image/png", 1)
	require.NoError(t, err)
	b, err := i.Issue("image/png", 1)
	require.NoError(t, err)

	assert.NotEqual(t, a.PublicURL, b.PublicURL)
}

func TestIssueUnknownImageSubtypeFallsBack(t *testing.T) {
	i := testIssuer()

	got, err := i.Issue("image/x-icon", 1)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(got.PublicURL, ".bin"), got.PublicURL)
}
