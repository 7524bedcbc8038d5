package pickbin

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// GenerateNumber produces a human-readable bin number such as
// "BIN-20260901-7C1D".
func GenerateNumber(at time.Time) string {
	return fmt.Sprintf("BIN-%s-%s", at.Format("20060102"), randomSuffix(2))
}

// GenerateBarcode produces a date-seeded, globally unique scannable code for
// the tote label, e.g. "BIN-20260901-9A4E1B0C". Uniqueness is additionally
// enforced by the storage layer's unique index on the barcode column.
func GenerateBarcode(at time.Time) string {
	return fmt.Sprintf("BIN-%s-%s", at.Format("20060102"), randomSuffix(4))
}

func randomSuffix(bytes int) string {
	buf := make([]byte, bytes)
	_, _ = rand.Read(buf)
	return strings.ToUpper(hex.EncodeToString(buf))
}
