// Package wire provides small helpers on top of protowire for the hand-rolled
// backup codecs. Both the native envelope codec and the Mihon compatibility
// codec encode messages field by field with stable field numbers, so the
// shared primitives live here.
package wire

import (
	"math"
	"time"

	"google.golang.org/protobuf/encoding/protowire"
)

// AppendString appends a length-delimited string field. Empty strings are
// omitted, matching proto3 presence rules.
func AppendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

// AppendStrings appends one field per element.
func AppendStrings(b []byte, num protowire.Number, vs []string) []byte {
	for _, v := range vs {
		b = protowire.AppendTag(b, num, protowire.BytesType)
		b = protowire.AppendString(b, v)
	}
	return b
}

// AppendBytes appends a length-delimited field, typically a nested message.
// Unlike scalar fields an empty message is still written so that the field's
// presence survives the round trip.
func AppendBytes(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

// AppendBool appends a varint bool field, omitting false.
func AppendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, 1)
}

// AppendInt64 appends a varint field, omitting zero.
func AppendInt64(b []byte, num protowire.Number, v int64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

// AppendUint32 appends a varint field, omitting zero.
func AppendUint32(b []byte, num protowire.Number, v uint32) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

// AppendFloat32 appends a fixed32 float field, omitting zero.
func AppendFloat32(b []byte, num protowire.Number, v float32) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.Fixed32Type)
	return protowire.AppendFixed32(b, math.Float32bits(v))
}

// AppendTime appends a timestamp as unix milliseconds, omitting the zero time.
func AppendTime(b []byte, num protowire.Number, t time.Time) []byte {
	if t.IsZero() {
		return AppendInt64(b, num, 0)
	}
	return AppendInt64(b, num, t.UnixMilli())
}

// ToTime converts a unix-millisecond varint back to a time.Time. Zero maps to
// the zero time, not the epoch.
func ToTime(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

// AsBool interprets a decoded varint as a bool.
func AsBool(v uint64) bool { return v != 0 }
