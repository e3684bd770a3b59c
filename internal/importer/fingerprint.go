package importer

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint is the hex SHA-256 of the raw row fields joined by newlines.
func Fingerprint(fields []string) string {
	sum := sha256.Sum256([]byte(strings.Join(fields, "\n")))
	return hex.EncodeToString(sum[:])
}

// RemoteID identifies an imported row across imports: "<format>:<fingerprint>".
func RemoteID(format string, fields []string) string {
	return format + ":" + Fingerprint(fields)
}
