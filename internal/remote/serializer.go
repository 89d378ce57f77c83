// Package remote plays engine.Player over a websocket. The wire format is
// one text command per message; packed values travel as unsigned base-16
// integers and names as base64.
package remote

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

const base = 16

// SerializeInt writes a packed 32-bit value.
func SerializeInt(v uint32) string { return strconv.FormatUint(uint64(v), base) }

// DeserializeInt reads a packed 32-bit value.
func DeserializeInt(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, base, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: int %q", ErrProtocol, s)
	}
	return uint32(v), nil
}

// SerializeLong writes a packed 64-bit value.
func SerializeLong(v uint64) string { return strconv.FormatUint(v, base) }

// DeserializeLong reads a packed 64-bit value.
func DeserializeLong(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, base, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: long %q", ErrProtocol, s)
	}
	return v, nil
}

// SerializeString encodes a UTF-8 string so it contains no separators.
func SerializeString(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }

// DeserializeString reverses SerializeString.
func DeserializeString(s string) (string, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", fmt.Errorf("%w: string %q", ErrProtocol, s)
	}
	return string(b), nil
}

// Combine joins fields with sep.
func Combine(sep string, fields ...string) string { return strings.Join(fields, sep) }

// Split is the inverse of Combine.
func Split(sep, s string) []string { return strings.Split(s, sep) }
