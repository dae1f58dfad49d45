package ioutils

import (
	"encoding/binary"
	"io"

	"github.com/ronanh/intcomp"
)

// CompressAndWriteInts64 compresses a slice of int64 and writes it to w.
// It returns the input buffer (possibly extended) for future use.
func CompressAndWriteInts64(w io.Writer, input []int64, buffer []uint64) ([]uint64, error) {
	buffer = buffer[:0]
	buffer = intcomp.CompressInt64(input, buffer)
	if err := binary.Write(w, binary.LittleEndian, uint64(len(buffer))); err != nil {
		return nil, err
	}
	if err := binary.Write(w, binary.LittleEndian, buffer); err != nil {
		return nil, err
	}
	return buffer, nil
}

// ReadAndDecompressInts64 reads a compressed slice of int64 from r and decompresses it.
// It returns the number of bytes read, the decompressed slice and an error.
func ReadAndDecompressInts64(r io.Reader) (int, []int64, error) {
	var length uint64
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return 0, nil, err
	}
	buffer := make([]uint64, length)
	if err := binary.Read(r, binary.LittleEndian, buffer); err != nil {
		return 8, nil, err
	}
	return 8 + 8*int(length), intcomp.UncompressInt64(buffer, nil), nil
}
