package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPage(t *testing.T) {
	docs := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{1, 2}, Page(docs, 2, 0))
	assert.Equal(t, []int{4, 5}, Page(docs, 10, 3))
	assert.Equal(t, []int{2, 3, 4, 5}, Page(docs, 0, 1))
	assert.Nil(t, Page(docs, 2, 5))
	assert.Equal(t, []int{1}, Page(docs, 1, -4))
}
