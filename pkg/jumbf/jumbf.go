// Package jumbf implements a minimal JUMBF (ISO/IEC 19566-5) box framing
// sufficient to make a manifest store genuinely box-shaped rather than a
// bare COSE blob: a single superbox of type "c2pa" wrapping one
// COSE_Sign1 byte string as its content. Full box nesting (multiple
// content boxes, descriptions, nested assertion stores) is out of scope.
package jumbf

import (
	"encoding/binary"

	"github.com/encypherai/encypher-ai/pkg/codecerr"
)

// BoxType is the C2PA manifest-store box type, "c2pa" as ASCII.
var BoxType = [4]byte{'c', '2', 'p', 'a'}

// boxHeaderSize is len(box length, 4 bytes big-endian) + len(box type,
// 4 bytes).
const boxHeaderSize = 8

// Box is a minimal JUMBF box: a length-prefixed, typed container around
// opaque content bytes.
type Box struct {
	BoxType [4]byte
	Content []byte
}

// Wrap packages content (a COSE_Sign1 byte string) into a single c2pa
// JUMBF box and returns its serialized bytes, forming the wrapper's
// manifest store payload.
func Wrap(content []byte) []byte {
	total := boxHeaderSize + len(content)
	out := make([]byte, boxHeaderSize, total)
	binary.BigEndian.PutUint32(out[0:4], uint32(total))
	copy(out[4:8], BoxType[:])
	out = append(out, content...)
	return out
}

// Unwrap parses a manifest store's bytes back into its single c2pa box,
// returning the COSE_Sign1 bytes it carries.
func Unwrap(data []byte) ([]byte, error) {
	if len(data) < boxHeaderSize {
		return nil, codecerr.New(codecerr.MalformedEnvelope)
	}

	length := binary.BigEndian.Uint32(data[0:4])
	if int(length) != len(data) {
		return nil, codecerr.New(codecerr.MalformedEnvelope)
	}
	if [4]byte(data[4:8]) != BoxType {
		return nil, codecerr.New(codecerr.MalformedEnvelope)
	}

	return data[boxHeaderSize:], nil
}
