// Package pdf inspects uploaded documents before they are sent for extraction.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PageCount returns the number of pages in content. The parser panics on some
// malformed inputs, so those are reported as errors.
func PageCount(content []byte) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			n, err = 0, fmt.Errorf("parse pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return 0, fmt.Errorf("parse pdf: %w", err)
	}
	return r.NumPage(), nil
}
