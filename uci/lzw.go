package uci

import (
	"fmt"
	"io"
)

// Decoder for streams produced by the unix compress(1) tool (".Z" files).
// The optdigits archives are stored this way and the standard library's
// compress/lzw cannot decode them: compress(1) streams grow their code width
// from 9 bits and use code 256 as a dictionary-clear marker in block mode.

const (
	zClearCode = 256
	zMaxWidth  = 16
)

// zMagic is the compress(1) header for block-mode streams with 16-bit max
// codes, the only variant the UCI archives use.
var zMagic = [3]byte{0x1f, 0x9d, 0x90}

// bitReader yields integer codes of arbitrary width from a byte stream,
// least significant bit first.
type bitReader struct {
	r    io.Reader
	acc  uint32
	bits uint
	buf  [1]byte
}

// next returns the next code of the given width. ok is false on a clean end
// of stream; trailing bits that cannot fill a whole code are discarded.
func (br *bitReader) next(width uint) (code int, ok bool, err error) {
	for br.bits < width {
		n, err := br.r.Read(br.buf[:])
		if n == 0 {
			if err == nil || err == io.EOF {
				return 0, false, nil
			}
			return 0, false, err
		}
		br.acc |= uint32(br.buf[0]) << br.bits
		br.bits += 8
	}
	code = int(br.acc & (1<<width - 1))
	br.acc >>= width
	br.bits -= width
	return code, true, nil
}

// zDecoder decompresses a compress(1) code stream (header already
// consumed). It implements io.Reader over the decoded bytes.
type zDecoder struct {
	br    bitReader
	table [][]byte
	prev  []byte
	width uint
	next  int
	out   []byte
	done  bool
}

// newZReader checks the 3-byte compress(1) header and returns a reader over
// the decompressed content.
func newZReader(r io.Reader) (io.Reader, error) {
	var header [3]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("read compress header: %w", err)
	}
	if header != zMagic {
		return nil, fmt.Errorf("not a compress(1) block-mode stream (header % x)", header)
	}
	d := &zDecoder{br: bitReader{r: r}}
	d.reset()
	return d, nil
}

func (d *zDecoder) reset() {
	d.table = make([][]byte, 1<<zMaxWidth)
	for i := 0; i < 256; i++ {
		d.table[i] = []byte{byte(i)}
	}
	d.table[zClearCode] = []byte{}
	d.prev = nil
	d.width = 9
	d.next = zClearCode + 1
}

// advance decodes one code into the output buffer. It reports false at the
// end of the stream.
func (d *zDecoder) advance() (bool, error) {
	code, ok, err := d.br.next(d.width)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	if code == zClearCode {
		d.reset()
	}

	var seq []byte
	switch {
	case code == d.next && len(d.prev) > 0:
		// The classic KwKwK case: the code being defined right now.
		seq = append(append([]byte(nil), d.prev...), d.prev[0])
	case code < len(d.table) && d.table[code] != nil:
		seq = d.table[code]
	default:
		return false, fmt.Errorf("invalid code %d in compressed stream", code)
	}

	if len(d.prev) > 0 && d.next < len(d.table) {
		d.table[d.next] = append(append([]byte(nil), d.prev...), seq[0])
		d.next++
		if d.width < zMaxWidth && d.next >= 1<<d.width {
			d.width++
		}
	}

	d.prev = seq
	d.out = append(d.out, seq...)
	return true, nil
}

func (d *zDecoder) Read(p []byte) (int, error) {
	for !d.done && len(d.out) < len(p) {
		more, err := d.advance()
		if err != nil {
			return 0, err
		}
		if !more {
			d.done = true
		}
	}
	if len(d.out) == 0 {
		return 0, io.EOF
	}
	n := copy(p, d.out)
	d.out = d.out[n:]
	return n, nil
}
