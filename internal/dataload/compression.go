package dataload

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"
)

type Compression int

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionBzip2
	CompressionXZ
)

var compressionExtensions = map[string]Compression{
	".gz":  CompressionGzip,
	".bz2": CompressionBzip2,
	".xz":  CompressionXZ,
}

// detectCompression uses the double-extension convention first
// (data.csv.gz) and falls back to magic-byte sniffing, matching the
// BreachLine's DetectFileTypeAndCompression/DetectCompressionByMagic pair.
func detectCompression(path string) (Compression, string) {
	lower := strings.ToLower(path)
	for ext, ct := range compressionExtensions {
		if strings.HasSuffix(lower, ext) {
			return ct, strings.TrimSuffix(path, path[len(path)-len(ext):])
		}
	}
	if ct, err := detectCompressionByMagic(path); err == nil && ct != CompressionNone {
		return ct, path
	}
	return CompressionNone, path
}

var (
	gzipMagic  = []byte{0x1f, 0x8b}
	bzip2Magic = []byte{0x42, 0x5a, 0x68}
	xzMagic    = []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}
)

func detectCompressionByMagic(path string) (Compression, error) {
	f, err := os.Open(path)
	if err != nil {
		return CompressionNone, err
	}
	defer f.Close()

	header := make([]byte, 6)
	n, err := f.Read(header)
	if err != nil && err != io.EOF {
		return CompressionNone, err
	}
	header = header[:n]

	switch {
	case bytes.HasPrefix(header, gzipMagic):
		return CompressionGzip, nil
	case bytes.HasPrefix(header, bzip2Magic):
		return CompressionBzip2, nil
	case bytes.HasPrefix(header, xzMagic):
		return CompressionXZ, nil
	default:
		return CompressionNone, nil
	}
}

// readAllDecompressed reads path fully, decompressing it first if ct is
// not CompressionNone.
func readAllDecompressed(path string, ct Compression) ([]byte, error) {
	if ct == CompressionNone {
		return os.ReadFile(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var reader io.Reader
	switch ct {
	case CompressionGzip:
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("dataload: gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	case CompressionBzip2:
		reader = bzip2.NewReader(f)
	case CompressionXZ:
		xzr, err := xz.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("dataload: xz reader: %w", err)
		}
		reader = xzr
	default:
		return nil, fmt.Errorf("dataload: unsupported compression %v", ct)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return nil, fmt.Errorf("dataload: decompressing %s: %w", path, err)
	}
	return buf.Bytes(), nil
}
