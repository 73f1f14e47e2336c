package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/beathaus/jobs-be/internal/api/dto"
	"github.com/google/uuid"
)

// UploadSigner issues presigned PUT URLs for job reference attachments. The
// client uploads directly to the object store with the signed URL; this
// service never touches file bytes.
type UploadSigner struct {
	baseURL string
	secret  []byte
	ttl     time.Duration
}

func NewUploadSigner(baseURL string, secret string, ttl time.Duration) *UploadSigner {
	return &UploadSigner{
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  []byte(secret),
		ttl:     ttl,
	}
}

// SignPut returns a presigned upload URL for the given file. The object key
// keeps the original extension but not the original name.
func (s *UploadSigner) SignPut(req *dto.UploadURLRequest) (*dto.UploadURLResponse, error) {
	ext := strings.ToLower(path.Ext(req.Filename))
	key := fmt.Sprintf("references/%s/%s%s", time.Now().UTC().Format("2006/01/02"), uuid.New().String(), ext)
	expiresAt := time.Now().Add(s.ttl)

	sig := s.sign(key, req.ContentType, expiresAt.Unix())

	u := fmt.Sprintf("%s/%s?expires=%d&signature=%s",
		s.baseURL,
		key,
		expiresAt.Unix(),
		url.QueryEscape(sig),
	)

	return &dto.UploadURLResponse{
		URL:       u,
		Key:       key,
		ExpiresAt: expiresAt.Format(time.RFC3339),
	}, nil
}

// Verify checks a signature produced by SignPut. The object store sidecar
// uses this to validate incoming PUTs.
func (s *UploadSigner) Verify(key, contentType string, expiresUnix int64, signature string) bool {
	if time.Now().Unix() > expiresUnix {
		return false
	}

	expected := s.sign(key, contentType, expiresUnix)
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (s *UploadSigner) sign(key, contentType string, expiresUnix int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s\n%s\n%d", key, contentType, expiresUnix)
	return hex.EncodeToString(mac.Sum(nil))
}
