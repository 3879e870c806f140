// Package buf contains helpers for endian-safe decoding routines.
package buf

import "encoding/binary"

// I32LE reads a little-endian int32 from b. Returns 0 when b is too short.
func I32LE(b []byte) int32 {
	if len(b) < 4 {
		return 0
	}
	return int32(binary.LittleEndian.Uint32(b))
}

// I64LE reads a little-endian int64 from b. Returns 0 when b is too short.
func I64LE(b []byte) int64 {
	if len(b) < 8 {
		return 0
	}
	return int64(binary.LittleEndian.Uint64(b))
}

// PutI32LE writes v into b as little-endian. b must hold at least 4 bytes.
func PutI32LE(b []byte, v int32) {
	binary.LittleEndian.PutUint32(b, uint32(v))
}

// PutI64LE writes v into b as little-endian. b must hold at least 8 bytes.
func PutI64LE(b []byte, v int64) {
	binary.LittleEndian.PutUint64(b, uint64(v))
}

// AppendI32LE appends v to b as little-endian.
func AppendI32LE(b []byte, v int32) []byte {
	return binary.LittleEndian.AppendUint32(b, uint32(v))
}

// AppendI64LE appends v to b as little-endian.
func AppendI64LE(b []byte, v int64) []byte {
	return binary.LittleEndian.AppendUint64(b, uint64(v))
}

// Encode returns v as a width-byte little-endian slice. Width must be 4 or 8.
func Encode(v int64, width int) []byte {
	if width == 4 {
		return AppendI32LE(make([]byte, 0, 4), int32(v))
	}
	return AppendI64LE(make([]byte, 0, 8), v)
}

// Decode reads a width-byte little-endian integer. Width must be 4 or 8.
func Decode(b []byte, width int) int64 {
	if width == 4 {
		return int64(I32LE(b))
	}
	return I64LE(b)
}
