package ports

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookFilter_Offset(t *testing.T) {
	assert.Equal(t, 0, BookFilter{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 20, BookFilter{Page: 3, Limit: 10}.Offset())
	assert.Equal(t, 0, BookFilter{Page: 5}.Offset())
	assert.Equal(t, math.MaxInt, BookFilter{Page: math.MaxInt, Limit: 100}.Offset())
}
