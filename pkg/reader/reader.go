// Package reader implements a cursor-based byte reader for Bitcoin wire
// format, mirroring the buffer cursor used throughout parsing: a single
// offset walked forward by fixed-width and variable-width reads.
package reader

import (
	"encoding/binary"
	"fmt"

	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/internal/ierrors"
)

// Cursor walks a borrowed byte slice left to right. It never copies the
// underlying data except where a read hands back a sub-slice to the caller.
type Cursor struct {
	data   []byte
	offset int
}

func New(data []byte) *Cursor {
	return &Cursor{data: data}
}

func (c *Cursor) Tell() int { return c.offset }

func (c *Cursor) Seek(offset int) { c.offset = offset }

func (c *Cursor) Len() int { return len(c.data) }

func (c *Cursor) Remaining() int { return len(c.data) - c.offset }

func (c *Cursor) HasMore() bool { return c.offset < len(c.data) }

// Bytes returns the full underlying buffer (not a copy).
func (c *Cursor) Bytes() []byte { return c.data }

func (c *Cursor) Peek(n int) []byte {
	end := c.offset + n
	if end > len(c.data) {
		end = len(c.data)
	}
	return c.data[c.offset:end]
}

func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if n < 0 || c.offset+n > len(c.data) {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ierrors.ErrTruncated, n, c.offset, len(c.data))
	}
	out := c.data[c.offset : c.offset+n]
	c.offset += n
	return out, nil
}

func (c *Cursor) ReadU8() (uint8, error) {
	b, err := c.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *Cursor) ReadU16LE() (uint16, error) {
	b, err := c.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *Cursor) ReadU32LE() (uint32, error) {
	b, err := c.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *Cursor) ReadI32LE() (int32, error) {
	v, err := c.ReadU32LE()
	return int32(v), err
}

func (c *Cursor) ReadU64LE() (uint64, error) {
	b, err := c.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadHash reads a 32-byte hash in its on-wire (internal) byte order.
func (c *Cursor) ReadHash() ([]byte, error) {
	return c.ReadBytes(32)
}

// SliceFrom returns data[from:c.offset) without advancing the cursor.
func (c *Cursor) SliceFrom(from int) []byte {
	return c.data[from:c.offset]
}
