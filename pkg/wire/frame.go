package wire

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// maxFrameBytes bounds a single frame's CBOR body, guarding against a
// peer sending a bogus length prefix that would otherwise trigger an
// unbounded allocation.
const maxFrameBytes = 16 * 1024 * 1024

// WriteFrame writes env to w as an 8-byte little-endian length
// prefix followed by its CBOR encoding.
func WriteFrame(w io.Writer, env *Envelope) error {
	body, err := cbor.Marshal(env)
	if err != nil {
		return fmt.Errorf("wire: encode envelope: %w", err)
	}

	var lenPrefix [8]byte
	binary.LittleEndian.PutUint64(lenPrefix[:], uint64(len(body)))

	if _, err := w.Write(lenPrefix[:]); err != nil {
		return fmt.Errorf("wire: write length prefix: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("wire: write body: %w", err)
	}
	return nil
}

// ReadFrame reads one length-prefixed CBOR envelope from r. A clean
// EOF on the length prefix is returned unwrapped so callers can
// distinguish a tidy disconnect from a malformed frame.
func ReadFrame(r io.Reader) (*Envelope, error) {
	var lenPrefix [8]byte
	if _, err := io.ReadFull(r, lenPrefix[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("wire: read length prefix: %w", err)
	}

	n := binary.LittleEndian.Uint64(lenPrefix[:])
	if n > maxFrameBytes {
		return nil, fmt.Errorf("wire: frame of %d bytes exceeds limit", n)
	}

	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("wire: read body: %w", err)
	}

	var env Envelope
	if err := cbor.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("wire: decode envelope: %w", err)
	}
	return &env, nil
}
