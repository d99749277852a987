// Package generator derives cache keys for generation requests.
package generator

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	domainGenerator "github.com/AzielCF/az-content/domains/generator"
)

const (
	OutlineKeyPrefix = "outline:"
	ContentKeyPrefix = "content:"
)

// OutlineKey fingerprints the fields that change the generated outline.
// Case and surrounding whitespace are ignored.
func OutlineKey(req domainGenerator.OutlineRequest) string {
	return OutlineKeyPrefix + fingerprint(
		req.Topic,
		req.Keyword,
		req.Audience,
		req.Tone,
		req.Language,
		strconv.Itoa(req.Sections),
	)
}

// ContentKey fingerprints the outline plus the writing options.
func ContentKey(req domainGenerator.ContentRequest) string {
	parts := []string{
		req.Outline.Title,
		req.Outline.Keyword,
		req.Keyword,
		req.Tone,
		req.Language,
		strconv.Itoa(req.WordCount),
	}
	for _, s := range req.Outline.Sections {
		parts = append(parts, s.Title, s.Summary, strings.Join(s.Keywords, ","))
	}
	return ContentKeyPrefix + fingerprint(parts...)
}

func fingerprint(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(strings.ToLower(strings.TrimSpace(p))))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:32]
}
