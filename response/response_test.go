package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPage(t *testing.T) {
	p := NewPage([]string{"a", "b"}, 1, 2, 5)
	assert.Equal(t, 3, p.TotalPage)
	assert.Equal(t, 5, p.Total)

	empty := NewPage([]string{}, 1, 10, 0)
	assert.Equal(t, 0, empty.TotalPage)
}
