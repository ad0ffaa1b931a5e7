package coupon

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"os"
	"strings"

	"bloomkart/internal/model"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for gzipped code files on local disk.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based code loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "coupon-code-loader").Logger(),
	}
}

// Load reads a gzipped code file, one coupon code per line. Codes that do
// not satisfy the coupon code format are skipped and counted.
func (l *fileLoader) Load(ctx context.Context, filePath string) (CodeSet, error) {
	l.logger.Info().Str("file", filePath).Msg("loading coupon code file")

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open code file")
		return nil, fmt.Errorf("failed to open coupon code file %s: %w", filePath, err)
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to create gzip reader")
		return nil, fmt.Errorf("failed to create gzip reader for %s: %w", filePath, err)
	}
	defer gzipReader.Close()

	set, skipped, err := readCodes(ctx, gzipReader)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("error reading code file")
		return nil, fmt.Errorf("error reading coupon code file %s: %w", filePath, err)
	}

	l.logger.Info().
		Str("file", filePath).
		Int("codes", set.Size()).
		Int("skipped", skipped).
		Msg("coupon code file loaded")

	return set, nil
}

// readCodes scans lines from a reader into a code set, skipping lines that
// fail the code format. Context cancellation is checked periodically.
func readCodes(ctx context.Context, r interface{ Read([]byte) (int, error) }) (*codeSet, int, error) {
	set := NewCodeSet(1024)
	skipped := 0

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineCount := 0
	for scanner.Scan() {
		if lineCount%10_000 == 0 {
			select {
			case <-ctx.Done():
				return nil, skipped, ctx.Err()
			default:
			}
		}
		lineCount++

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !model.ValidCouponCode(line) {
			skipped++
			continue
		}
		set.Add(line)
	}

	if err := scanner.Err(); err != nil {
		return nil, skipped, err
	}
	return set, skipped, nil
}
