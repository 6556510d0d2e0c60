package buffer

import (
	"bytes"
	"compress/bzip2"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/text/encoding/unicode"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type unicodeEncoding int

const (
	encodingUnknown unicodeEncoding = iota
	encodingUTF8BOM
	encodingUTF16LE
	encodingUTF16BE
)

type decompressor func(io.Reader) (io.ReadCloser, error)

var decompressors = map[string]decompressor{
	".gz":   openGzip,
	".zst":  openZstd,
	".zstd": openZstd,
	".bz2":  openBzip2,
}

func openGzip(r io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(r)
}

func openZstd(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return dec.IOReadCloser(), nil
}

func openBzip2(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(bzip2.NewReader(r)), nil
}

// decompressorFor reports the decompressor registered for path's extension.
func decompressorFor(path string) decompressor {
	if path == "" {
		return nil
	}
	return decompressors[strings.ToLower(filepath.Ext(path))]
}

func readCompressed(path string, open decompressor) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	rc, err := open(f)
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", path, err)
	}
	defer func() {
		_ = rc.Close()
	}()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", path, err)
	}
	return data, nil
}

func hasUTF8BOM(data []byte) bool {
	return bytes.HasPrefix(data, utf8BOM)
}

func detectUnicodeEncoding(sample []byte) unicodeEncoding {
	if hasUTF8BOM(sample) {
		return encodingUTF8BOM
	}
	if len(sample) >= 2 {
		switch {
		case sample[0] == 0xFF && sample[1] == 0xFE:
			return encodingUTF16LE
		case sample[0] == 0xFE && sample[1] == 0xFF:
			return encodingUTF16BE
		}
	}
	return encodingUnknown
}

// normalizeEncoding strips a UTF-8 byte-order mark and transcodes UTF-16
// content (recognised by its BOM) to UTF-8. Anything else is returned as is.
func normalizeEncoding(data []byte) []byte {
	switch detectUnicodeEncoding(data) {
	case encodingUTF8BOM:
		return data[len(utf8BOM):]
	case encodingUTF16LE:
		return decodeUTF16(data, unicode.LittleEndian)
	case encodingUTF16BE:
		return decodeUTF16(data, unicode.BigEndian)
	default:
		return data
	}
}

func isUTF16(data []byte) bool {
	enc := detectUnicodeEncoding(data)
	return enc == encodingUTF16LE || enc == encodingUTF16BE
}

func decodeUTF16(data []byte, endian unicode.Endianness) []byte {
	out, err := unicode.UTF16(endian, unicode.ExpectBOM).NewDecoder().Bytes(data)
	if err != nil {
		return data
	}
	return out
}
