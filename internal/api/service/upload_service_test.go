package service

import (
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beathaus/jobs-be/internal/api/dto"
)

func TestUploadSigner_SignPut(t *testing.T) {
	signer := NewUploadSigner("http://uploads.local/", "upload-secret", 15*time.Minute)

	resp, err := signer.SignPut(&dto.UploadURLRequest{
		Filename:    "Reference Track.MP3",
		ContentType: "audio/mpeg",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.URL, "http://uploads.local/references/"))
	assert.True(t, strings.HasSuffix(resp.Key, ".mp3"), "extension is kept, lowercased")
	assert.NotContains(t, resp.Key, "Reference", "original filename never leaks into the key")

	parsed, err := url.Parse(resp.URL)
	require.NoError(t, err)

	expires, err := strconv.ParseInt(parsed.Query().Get("expires"), 10, 64)
	require.NoError(t, err)
	signature := parsed.Query().Get("signature")
	require.NotEmpty(t, signature)

	assert.True(t, signer.Verify(resp.Key, "audio/mpeg", expires, signature))
}

func TestUploadSigner_Verify(t *testing.T) {
	signer := NewUploadSigner("http://uploads.local", "upload-secret", 15*time.Minute)

	resp, err := signer.SignPut(&dto.UploadURLRequest{
		Filename:    "beat.wav",
		ContentType: "audio/wav",
	})
	require.NoError(t, err)

	parsed, err := url.Parse(resp.URL)
	require.NoError(t, err)
	expires, err := strconv.ParseInt(parsed.Query().Get("expires"), 10, 64)
	require.NoError(t, err)
	signature := parsed.Query().Get("signature")

	assert.True(t, signer.Verify(resp.Key, "audio/wav", expires, signature))

	assert.False(t, signer.Verify("references/other-key.wav", "audio/wav", expires, signature), "tampered key")
	assert.False(t, signer.Verify(resp.Key, "video/mp4", expires, signature), "tampered content type")
	assert.False(t, signer.Verify(resp.Key, "audio/wav", expires, "deadbeef"), "forged signature")

	other := NewUploadSigner("http://uploads.local", "different-secret", 15*time.Minute)
	assert.False(t, other.Verify(resp.Key, "audio/wav", expires, signature), "wrong secret")
}

func TestUploadSigner_Expiry(t *testing.T) {
	signer := NewUploadSigner("http://uploads.local", "upload-secret", -time.Minute)

	resp, err := signer.SignPut(&dto.UploadURLRequest{
		Filename:    "beat.wav",
		ContentType: "audio/wav",
	})
	require.NoError(t, err)

	parsed, err := url.Parse(resp.URL)
	require.NoError(t, err)
	expires, err := strconv.ParseInt(parsed.Query().Get("expires"), 10, 64)
	require.NoError(t, err)

	assert.False(t, signer.Verify(resp.Key, "audio/wav", expires, parsed.Query().Get("signature")))
}
