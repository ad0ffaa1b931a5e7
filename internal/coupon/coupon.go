// Package coupon loads coupon-code files for bulk import. Files are
// gzipped, one code per line, and may live on local disk or in S3.
package coupon

import (
	"context"
)

// CodeSet is a deduplicated collection of coupon codes read from a file.
type CodeSet interface {
	// Contains checks if a code exists in the set.
	Contains(code string) bool

	// Codes returns the codes in insertion order.
	Codes() []string

	// Size returns the number of codes in the set.
	Size() int
}

// Loader reads a gzipped coupon-code file and returns the valid codes it
// contains. Lines that do not satisfy the coupon code format are skipped.
type Loader interface {
	Load(ctx context.Context, path string) (CodeSet, error)
}
