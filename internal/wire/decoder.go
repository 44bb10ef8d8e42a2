package wire

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Decoder walks the fields of a single encoded message. Accessors consume the
// current field's value; a wire-type mismatch or truncated payload poisons the
// decoder so the caller can fail closed with one Err check at the end.
type Decoder struct {
	buf []byte
	num protowire.Number
	typ protowire.Type
	err error
}

// NewDecoder returns a Decoder over one message's bytes.
func NewDecoder(b []byte) *Decoder {
	return &Decoder{buf: b}
}

// Next advances to the next field. It returns false at the end of the message
// or on a malformed tag.
func (d *Decoder) Next() bool {
	if d.err != nil || len(d.buf) == 0 {
		return false
	}
	num, typ, n := protowire.ConsumeTag(d.buf)
	if n < 0 {
		d.err = protowire.ParseError(n)
		return false
	}
	d.buf = d.buf[n:]
	d.num = num
	d.typ = typ
	return true
}

// FieldNumber returns the current field's number.
func (d *Decoder) FieldNumber() protowire.Number { return d.num }

// Err returns the first malformed-input error encountered, if any.
func (d *Decoder) Err() error { return d.err }

// Skip discards the current field's value, whatever its type.
func (d *Decoder) Skip() {
	if d.err != nil {
		return
	}
	n := protowire.ConsumeFieldValue(d.num, d.typ, d.buf)
	if n < 0 {
		d.err = protowire.ParseError(n)
		return
	}
	d.buf = d.buf[n:]
}

// Bytes consumes a length-delimited field.
func (d *Decoder) Bytes() []byte {
	if d.err != nil {
		return nil
	}
	if d.typ != protowire.BytesType {
		d.err = fmt.Errorf("field %d: expected length-delimited value, got wire type %d", d.num, d.typ)
		return nil
	}
	v, n := protowire.ConsumeBytes(d.buf)
	if n < 0 {
		d.err = protowire.ParseError(n)
		return nil
	}
	d.buf = d.buf[n:]
	return v
}

// Text consumes a length-delimited field as a string.
func (d *Decoder) Text() string {
	return string(d.Bytes())
}

// Varint consumes a varint field.
func (d *Decoder) Varint() uint64 {
	if d.err != nil {
		return 0
	}
	if d.typ != protowire.VarintType {
		d.err = fmt.Errorf("field %d: expected varint, got wire type %d", d.num, d.typ)
		return 0
	}
	v, n := protowire.ConsumeVarint(d.buf)
	if n < 0 {
		d.err = protowire.ParseError(n)
		return 0
	}
	d.buf = d.buf[n:]
	return v
}

// Int64 consumes a varint field as int64.
func (d *Decoder) Int64() int64 { return int64(d.Varint()) }

// Bool consumes a varint field as bool.
func (d *Decoder) Bool() bool { return d.Varint() != 0 }

// Float32 consumes a fixed32 field as float32.
func (d *Decoder) Float32() float32 {
	if d.err != nil {
		return 0
	}
	if d.typ != protowire.Fixed32Type {
		d.err = fmt.Errorf("field %d: expected fixed32, got wire type %d", d.num, d.typ)
		return 0
	}
	v, n := protowire.ConsumeFixed32(d.buf)
	if n < 0 {
		d.err = protowire.ParseError(n)
		return 0
	}
	d.buf = d.buf[n:]
	return math.Float32frombits(v)
}
