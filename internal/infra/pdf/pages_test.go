package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageCount_NotAPDF(t *testing.T) {
	for _, content := range [][]byte{nil, []byte("hello"), []byte("%PDF-1.4\n%%EOF")} {
		n, err := PageCount(content)
		assert.Error(t, err)
		assert.Zero(t, n)
	}
}
