package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJSON(t *testing.T) {
	assert.Equal(t, `{"X-CSRF-Token":"abc"}`, JSON(map[string]string{"X-CSRF-Token": "abc"}))
	assert.Equal(t, "{}", JSON(make(chan int)))
}
