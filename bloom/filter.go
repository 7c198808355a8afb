// Package bloom provides the probabilistic seen-set behind crawl
// frontier deduplication.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// SeenSet records normalized URLs in a Bloom filter. Membership
// answers may false-positive, which costs the crawl at most one
// skipped page, but never false-negative, so no URL is queued twice.
type SeenSet struct {
	filter *bloom.BloomFilter
}

// NewSeenSet sizes the set for the expected number of distinct URLs
// at the given false positive rate.
func NewSeenSet(expected uint, fpRate float64) *SeenSet {
	return &SeenSet{filter: bloom.NewWithEstimates(expected, fpRate)}
}

// Record marks a URL as seen.
func (s *SeenSet) Record(url string) {
	s.filter.AddString(url)
}

// Seen reports whether the URL was recorded before. A true result may
// be a false positive at the configured rate.
func (s *SeenSet) Seen(url string) bool {
	return s.filter.TestString(url)
}

// ApproxLen estimates how many distinct URLs have been recorded.
func (s *SeenSet) ApproxLen() uint {
	return uint(s.filter.ApproximatedSize())
}
