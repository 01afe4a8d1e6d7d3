package util

import (
	"encoding/json"

	"github.com/google/uuid"
)

// ContentUUID is a name-based (MD5) UUID of data, stable across runs.
func ContentUUID(data []byte) string {
	return uuid.NewMD5(uuid.Nil, data).String()
}

// HashUUID is the ContentUUID of value's JSON encoding, or "" when value
// cannot be encoded.
func HashUUID(value any) string {
	raw, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	return ContentUUID(raw)
}
