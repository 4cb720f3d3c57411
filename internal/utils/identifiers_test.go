package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateInvoiceNumber(t *testing.T) {
	pattern := regexp.MustCompile(`^INV-[0-9A-F]{8}$`)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		number := GenerateInvoiceNumber()
		assert.Regexp(t, pattern, number)
		assert.False(t, seen[number], "duplicate invoice number %s", number)
		seen[number] = true
	}
}
