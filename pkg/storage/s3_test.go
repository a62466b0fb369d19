package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateKey(t *testing.T) {
	key := GenerateKey(BucketDMAttachments, "Photo.JPG")

	assert.True(t, strings.HasPrefix(key, BucketDMAttachments+"/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.NotContains(t, key, "Photo")
}

func TestPublicURL(t *testing.T) {
	withCDN := &S3Client{bucket: "b", cdnURL: "https://cdn.example.com"}
	assert.Equal(t, "https://cdn.example.com/a/b.png", withCDN.PublicURL("a/b.png"))

	bare := &S3Client{bucket: "b"}
	assert.Equal(t, "https://b.s3.amazonaws.com/a/b.png", bare.PublicURL("a/b.png"))
}
