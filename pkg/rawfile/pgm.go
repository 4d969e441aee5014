package rawfile

import(
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math/bits"
)

// ReadPGM parses a binary PGM (P5) stream, the format dcraw emits for
// undemosaiced sensor data. Samples wider than 8 bits are big-endian
// per the netpbm spec. The frame's bit depth is derived from maxval.
func ReadPGM(r io.Reader) (*Frame, error) {
	br := bufio.NewReader(r)

	magic, err := pgmToken(br)
	if err != nil {
		return nil, fmt.Errorf("pgm header: %v", err)
	}
	if magic != "P5" {
		return nil, fmt.Errorf("pgm magic %q, want P5", magic)
	}

	var w, h, maxval int
	for _, field := range []*int{&w, &h, &maxval} {
		tok, err := pgmToken(br)
		if err != nil {
			return nil, fmt.Errorf("pgm header: %v", err)
		}
		if _, err := fmt.Sscanf(tok, "%d", field); err != nil {
			return nil, fmt.Errorf("pgm header field %q: %v", tok, err)
		}
	}
	if w <= 0 || h <= 0 || maxval <= 0 || maxval > 65535 {
		return nil, fmt.Errorf("pgm header %dx%d maxval %d out of range", w, h, maxval)
	}

	f := &Frame{
		Width:  w,
		Height: h,
		Bits:   uint(bits.Len(uint(maxval))),
		Pix:    make([]uint16, w*h),
	}

	if maxval > 255 {
		buf := make([]byte, 2*len(f.Pix))
		if _, err := io.ReadFull(br, buf); err != nil {
			return nil, fmt.Errorf("pgm pixel data: %v", err)
		}
		for i := range f.Pix {
			f.Pix[i] = binary.BigEndian.Uint16(buf[2*i:])
		}
	} else {
		buf := make([]byte, len(f.Pix))
		if _, err := io.ReadFull(br, buf); err != nil {
			return nil, fmt.Errorf("pgm pixel data: %v", err)
		}
		for i, b := range buf {
			f.Pix[i] = uint16(b)
		}
	}

	return f, nil
}

// WritePGM emits the frame as binary PGM, matching the sample width
// ReadPGM infers from maxval. Used for kept intermediates and the raw
// output format.
func WritePGM(w io.Writer, f *Frame) error {
	maxval := (1 << f.Bits) - 1
	if _, err := fmt.Fprintf(w, "P5\n%d %d\n%d\n", f.Width, f.Height, maxval); err != nil {
		return err
	}

	if maxval <= 255 {
		buf := make([]byte, len(f.Pix))
		for i, v := range f.Pix {
			buf[i] = byte(v)
		}
		_, err := w.Write(buf)
		return err
	}

	buf := make([]byte, 2*len(f.Pix))
	for i, v := range f.Pix {
		binary.BigEndian.PutUint16(buf[2*i:], v)
	}
	_, err := w.Write(buf)
	return err
}

// pgmToken reads the next whitespace-delimited header token, skipping
// '#' comments.
func pgmToken(br *bufio.Reader) (string, error) {
	tok := []byte{}
	for {
		c, err := br.ReadByte()
		if err != nil {
			if err == io.EOF && len(tok) > 0 {
				return string(tok), nil
			}
			return "", err
		}

		switch {
		case c == '#' && len(tok) == 0:
			if _, err := br.ReadString('\n'); err != nil {
				return "", err
			}
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			if len(tok) > 0 {
				return string(tok), nil
			}
		default:
			tok = append(tok, c)
		}
	}
}
