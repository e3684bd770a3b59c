package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sniffSize = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// detected maps chardet charset names to decoders for the single-byte charsets banks use.
var detected = map[string]encoding.Encoding{
	"ISO-8859-1":   charmap.Windows1252,
	"windows-1252": charmap.Windows1252,
	"ISO-8859-15":  charmap.ISO8859_15,
	"ISO-8859-9":   charmap.ISO8859_9,
}

// Stream is an export file ready for delimiter parsing. Reading it yields the file's own
// bytes with any BOM removed, so parsed fields are raw and stable wherever a row sits in the
// file. Text turns one raw field into UTF-8.
//
// Files with a UTF-16 BOM cannot be split on ASCII delimiters as they are; those are
// transcoded to UTF-8 up front.
type Stream struct {
	io.Reader
	charset encoding.Encoding
}

// Open prepares r for parsing. The charset for non-UTF-8 fields is picked once:
//  1. BOM (UTF-8 BOM is stripped; UTF-16 LE/BE is transcoded)
//  2. chardet heuristics on the first bytes when they are not UTF-8
//  3. fallback, the export's documented charset
func Open(r io.Reader, fallback encoding.Encoding) (*Stream, error) {
	if fallback == nil {
		fallback = charmap.Windows1252
	}

	br := bufio.NewReaderSize(r, sniffSize)

	buf, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peek: %w", err)
	}

	switch {
	case bytes.HasPrefix(buf, bomUTF8):
		_, _ = br.Discard(len(bomUTF8))
		return &Stream{Reader: br, charset: fallback}, nil
	case bytes.HasPrefix(buf, bomUTF16LE):
		dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		return &Stream{Reader: transform.NewReader(br, dec), charset: fallback}, nil
	case bytes.HasPrefix(buf, bomUTF16BE):
		dec := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
		return &Stream{Reader: transform.NewReader(br, dec), charset: fallback}, nil
	}

	return &Stream{Reader: br, charset: sniff(buf, fallback)}, nil
}

func sniff(buf []byte, fallback encoding.Encoding) encoding.Encoding {
	if validUTF8Prefix(buf) {
		return fallback
	}

	result, err := chardet.NewTextDetector().DetectBest(buf)
	if err != nil {
		return fallback
	}

	if enc, ok := detected[result.Charset]; ok {
		return enc
	}

	return fallback
}

// Text returns raw as UTF-8. Valid UTF-8 is kept as is; anything else is decoded with the
// stream's single-byte charset.
func (s *Stream) Text(raw string) string {
	if utf8.ValidString(raw) {
		return raw
	}

	decoded, err := s.charset.NewDecoder().String(raw)
	if err != nil || !utf8.ValidString(decoded) {
		return strings.ToValidUTF8(raw, "�")
	}

	return decoded
}

// Texts applies Text to every field.
func (s *Stream) Texts(raw []string) []string {
	out := make([]string, len(raw))
	for i, f := range raw {
		out[i] = s.Text(f)
	}

	return out
}

// validUTF8Prefix tolerates a multi-byte rune cut off at the end of the sniffed window.
func validUTF8Prefix(buf []byte) bool {
	if utf8.Valid(buf) {
		return true
	}

	for cut := 1; cut < utf8.UTFMax && cut < len(buf); cut++ {
		if utf8.Valid(buf[:len(buf)-cut]) && !utf8.FullRune(buf[len(buf)-cut:]) {
			return true
		}
	}

	return false
}
