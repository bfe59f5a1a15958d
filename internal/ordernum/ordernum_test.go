package ordernum

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^ORD-\d+-\d{4}$`)
	for i := 0; i < 100; i++ {
		assert.Regexp(t, pattern, Generate())
	}
}
