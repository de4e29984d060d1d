// Package hashing computes the content-derived signatures the collector's
// deduplication pass (§4.E) uses to suppress near-duplicate results: a
// document's site, title, URL, and URL-without-TLD each hash to a uint64.
package hashing

import (
	"hash/fnv"
	"strings"

	"github.com/hyperjump/wyvern/internal/model"
)

// Compute derives doc's ContentHashes at index time, stored alongside its
// fast fields so query time never re-hashes.
func Compute(doc *model.Document) model.ContentHashes {
	return model.ContentHashes{
		Site:     sum64(doc.Site),
		Title:    sum64(normalizeTitle(doc.Title)),
		URL:      sum64(doc.URL),
		URLNoTLD: sum64(stripTLD(doc.Domain)),
	}
}

func sum64(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// normalizeTitle lowercases and collapses whitespace so that titles
// differing only in case or spacing hash identically.
func normalizeTitle(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}

// stripTLD drops the last dot-separated label of a domain (example.co.uk ->
// example.co), so "example.com" and "example.net" collapse to the same
// URL-without-TLD identity used for the dedup penalty.
func stripTLD(domain string) string {
	labels := strings.Split(domain, ".")
	if len(labels) <= 1 {
		return domain
	}
	return strings.Join(labels[:len(labels)-1], ".")
}
