package fs

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/aretw0/memoria/pkg/core"
)

// codec converts between the on-disk charset and UTF-8.
type codec struct {
	name string
	enc  encoding.Encoding // nil for UTF-8
}

func newCodec(name string) (codec, error) {
	if name == "" || isUTF8(name) {
		return codec{name: "utf-8"}, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return codec{}, fmt.Errorf("unsupported encoding %q: %w", name, err)
	}
	canonical, _ := htmlindex.Name(enc)
	if canonical == "utf-8" {
		return codec{name: "utf-8"}, nil
	}
	return codec{name: canonical, enc: enc}, nil
}

func isUTF8(name string) bool {
	n := strings.ToLower(strings.ReplaceAll(name, "_", "-"))
	return n == "utf-8" || n == "utf8"
}

// decode returns the UTF-8 text of data. Invalid UTF-8 is a malformed store.
func (c codec) decode(data []byte) (string, error) {
	if c.enc == nil {
		data = trimBOM(data)
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: invalid utf-8", core.ErrMalformedStore)
		}
		return string(data), nil
	}
	out, err := c.enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("%w: decode %s: %v", core.ErrMalformedStore, c.name, err)
	}
	return string(out), nil
}

func (c codec) encode(s string) ([]byte, error) {
	if c.enc == nil {
		return []byte(s), nil
	}
	out, err := c.enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", c.name, err)
	}
	return out, nil
}

func trimBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}
