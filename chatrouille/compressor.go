//----------------------------------------------------------------------
// This file is part of Chatrouille.
// Copyright (C) 2020-2024 the Chatrouille authors
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

package chatrouille

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"
)

// compress deflates data with a zlib wrapper at the default compression
// level. Empty input is valid and produces a minimal zlib frame. The
// 2-byte zlib header doubles as a cheap format guard right after AEAD
// decryption and matches widely available decoders in other languages.
func compress(data []byte) ([]byte, error) {
	var out bytes.Buffer
	w := zlib.NewWriter(&out)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// decompress inflates a zlib frame. It reads until the stream's declared
// end (checksum trailer) and ignores anything after it, which is exactly
// what lets the pack-side zero padding (see pad) survive the round trip
// without decompress ever seeing it.
func decompress(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// pad appends zero bytes so len(data) becomes a multiple of
// paddingBlockSize. This is a privacy-oriented length quantization step;
// it is intentionally ambiguous with respect to decompression, which is
// fine because decompress stops at the zlib stream's declared end.
func pad(data []byte) []byte {
	rem := len(data) % paddingBlockSize
	if rem == 0 {
		return data
	}
	return append(data, make([]byte, paddingBlockSize-rem)...)
}
