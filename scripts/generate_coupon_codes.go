package main

import (
	"compress/gzip"
	"crypto/rand"
	"flag"
	"fmt"
	"log"
	"math/big"
	"os"
	"path/filepath"
)

// Generates a gzipped coupon-code file for the bulk import endpoint,
// one code per line. Codes are PREFIX + 6 random alphanumerics.
func main() {
	var (
		count  = flag.Int("count", 1000, "number of codes to generate")
		prefix = flag.String("prefix", "BLOOM", "code prefix (uppercase alphanumeric)")
		out    = flag.String("out", "data/coupons/codes.gz", "output file path")
	)
	flag.Parse()

	if err := os.MkdirAll(filepath.Dir(*out), 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	file, err := os.Create(*out)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", *out, err)
	}
	defer file.Close()

	gz := gzip.NewWriter(file)
	defer gz.Close()

	seen := make(map[string]struct{}, *count)
	for len(seen) < *count {
		code := *prefix + randomSuffix(6)
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		if _, err := fmt.Fprintln(gz, code); err != nil {
			log.Fatalf("Failed to write code: %v", err)
		}
	}

	if err := gz.Close(); err != nil {
		log.Fatalf("Failed to flush gzip stream: %v", err)
	}

	fmt.Printf("Created %s with %d codes\n", *out, *count)
	fmt.Println("\nImport them with:")
	fmt.Printf("  curl -X POST http://localhost:8080/api/coupons/bulk \\\n")
	fmt.Printf("    -H 'X-API-Key: <key>' -H 'Content-Type: application/json' \\\n")
	fmt.Printf("    -d '{\"source\":\"file\",\"path\":\"%s\",\"template\":{...}}'\n", *out)
}

const alphanum = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomSuffix(n int) string {
	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphanum))))
		if err != nil {
			log.Fatalf("Failed to generate random code: %v", err)
		}
		buf[i] = alphanum[idx.Int64()]
	}
	return string(buf)
}
