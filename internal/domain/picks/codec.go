package picks

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Encode serializes a pick mapping to a compact URL-safe token: JSON
// wrapped in unpadded URL-safe base64. Invertible by Decode.
func Encode(m map[string]string) string {
	if m == nil {
		m = map[string]string{}
	}
	raw, err := json.Marshal(m)
	if err != nil {
		// A map[string]string cannot fail to marshal.
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(raw)
}

// Decode parses a share token back into a pick mapping. The token arrives
// from user-controlled URLs, so any malformed input yields an empty mapping
// and a non-nil error the caller is free to ignore.
func Decode(token string) (map[string]string, error) {
	if token == "" {
		return map[string]string{}, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		// Tolerate padded/standard variants of the same payload.
		raw, err = base64.StdEncoding.DecodeString(token)
		if err != nil {
			return map[string]string{}, fmt.Errorf("decode pick token: %w", err)
		}
	}
	var m map[string]string
	if err := json.Unmarshal(raw, &m); err != nil {
		return map[string]string{}, fmt.Errorf("decode pick token: %w", err)
	}
	if m == nil {
		m = map[string]string{}
	}
	return m, nil
}
