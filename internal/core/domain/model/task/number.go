package task

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// GenerateNumber produces a human-readable task number such as
// "PICK-20260901-3F2A". The date prefix keeps paperwork sortable; the random
// suffix keeps numbers unique within a day for practical purposes.
func GenerateNumber(kind Kind, at time.Time) string {
	return fmt.Sprintf("%s-%s-%s", kind, at.Format("20060102"), randomSuffix(2))
}

func randomSuffix(bytes int) string {
	buf := make([]byte, bytes)
	_, _ = rand.Read(buf)
	return strings.ToUpper(hex.EncodeToString(buf))
}
