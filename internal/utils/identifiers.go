package utils

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// GenerateInvoiceNumber produces "INV-" followed by 8 uppercase hex
// characters drawn from a v4 UUID. Global uniqueness is backed by the unique
// index on the invoices collection.
func GenerateInvoiceNumber() string {
	id := uuid.New()
	hexed := strings.ToUpper(hex.EncodeToString(id[:]))
	return InvoiceNumberPrefix + hexed[:InvoiceNumberHexLength]
}

// GenerateRequestID tags every request for log correlation.
func GenerateRequestID() string {
	return uuid.NewString()
}
