// SPDX-License-Identifier: MIT

// Package codec is the on-disk container shared by result stores and resampled
// datasets: a gob payload inside a zstd stream, preceded by a short magic tag
// that identifies the payload kind.
//
// gob keeps float64 values bit-exact (NaN and ±Inf included), which the
// round-trip contract of the result store relies on.
package codec

import (
	"bufio"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

const magicLen = 8

var (
	// ErrMagic is returned when a file does not start with the expected tag.
	ErrMagic = errors.New("codec: unexpected file kind")

	// ErrBadMagic is returned by Write for tags that are not exactly 8 bytes.
	ErrBadMagic = errors.New("codec: magic tag must be 8 bytes")
)

// Write encodes v into w, prefixed by magic.
func Write(w io.Writer, magic string, v any) error {
	if len(magic) != magicLen {
		return ErrBadMagic
	}
	if _, err := io.WriteString(w, magic); err != nil {
		return fmt.Errorf("codec: write magic: %w", err)
	}
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("codec: zstd writer: %w", err)
	}
	if err = gob.NewEncoder(zw).Encode(v); err != nil {
		_ = zw.Close()
		return fmt.Errorf("codec: encode: %w", err)
	}
	if err = zw.Close(); err != nil {
		return fmt.Errorf("codec: flush: %w", err)
	}
	return nil
}

// Read decodes a payload written by Write into v.
func Read(r io.Reader, magic string, v any) error {
	head := make([]byte, magicLen)
	if _, err := io.ReadFull(r, head); err != nil {
		return fmt.Errorf("codec: read magic: %w", err)
	}
	if string(head) != magic {
		return fmt.Errorf("%w: got %q, want %q", ErrMagic, head, magic)
	}
	zr, err := zstd.NewReader(r)
	if err != nil {
		return fmt.Errorf("codec: zstd reader: %w", err)
	}
	defer zr.Close()
	if err = gob.NewDecoder(zr).Decode(v); err != nil {
		return fmt.Errorf("codec: decode: %w", err)
	}
	return nil
}

// WriteFile writes v to path, replacing any existing file.
func WriteFile(path, magic string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err = Write(bw, magic, v); err != nil {
		_ = f.Close()
		return err
	}
	if err = bw.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// ReadFile reads a payload written by WriteFile.
func ReadFile(path, magic string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return Read(bufio.NewReader(f), magic, v)
}
