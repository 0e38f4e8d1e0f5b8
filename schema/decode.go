package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/foomo/globalcontent-mcp/service/vo"
)

// Decode reads a single JSON value keeping numbers as json.Number so large
// ids survive untouched.
func Decode(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("failed to decode JSON: unexpected data after top-level value")
	}
	return v, nil
}

func DecodeGlobalPageHeader(data []byte, opts ...Option) (vo.GlobalPageHeader, error) {
	v, err := Decode(bytes.NewReader(data))
	if err != nil {
		return vo.GlobalPageHeader{}, err
	}
	return ParseGlobalPageHeader(v, opts...)
}

func DecodeGlobalPageFooter(data []byte, opts ...Option) (vo.GlobalPageFooter, error) {
	v, err := Decode(bytes.NewReader(data))
	if err != nil {
		return vo.GlobalPageFooter{}, err
	}
	return ParseGlobalPageFooter(v, opts...)
}
