// Package cfa describes color filter array mosaics: which photosite in a
// sensor's repeating tile sits under which color filter.
package cfa

import(
	"errors"
	"fmt"
	"image"
	"strings"
)

// A Channel identifies one color filter.
type Channel uint8

const (
	Red Channel = iota
	Green
	Blue
)

func (c Channel)String() string {
	switch c {
	case Red:   return "R"
	case Green: return "G"
	case Blue:  return "B"
	}
	return "?"
}

// A Layout is a named CFA mosaic. The four Bayer layouts repeat a 2x2
// tile; XTrans repeats a 6x6 tile.
type Layout int

const (
	RGGB Layout = iota
	BGGR
	GRBG
	GBRG
	XTrans
)

var ErrInvalidLayout = errors.New("unrecognized CFA layout")

func ParseLayout(name string) (Layout, error) {
	switch strings.ToUpper(name) {
	case "RGGB":             return RGGB, nil
	case "BGGR":             return BGGR, nil
	case "GRBG":             return GRBG, nil
	case "GBRG":             return GBRG, nil
	case "XTRANS", "X-TRANS": return XTrans, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidLayout, name)
}

func (l Layout)String() string {
	switch l {
	case RGGB:   return "RGGB"
	case BGGR:   return "BGGR"
	case GRBG:   return "GRBG"
	case GBRG:   return "GBRG"
	case XTrans: return "XTrans"
	}
	return fmt.Sprintf("Layout(%d)", int(l))
}

// TileSize is the edge length of the repeating tile.
func (l Layout)TileSize() int {
	if l == XTrans {
		return 6
	}
	return 2
}

// BayerOffsets gives the position of each sample within a 2x2 Bayer
// tile. X is the column offset and Y the row offset, both in {0,1}.
type BayerOffsets struct {
	R, G1, G2, B image.Point
}

// Fixed data, one entry per Bayer layout. Looked up once at
// configuration time, never recomputed per frame.
var bayerOffsets = map[Layout]BayerOffsets{
	RGGB: {R: image.Point{0, 0}, G1: image.Point{1, 0}, G2: image.Point{0, 1}, B: image.Point{1, 1}},
	BGGR: {B: image.Point{0, 0}, G1: image.Point{1, 0}, G2: image.Point{0, 1}, R: image.Point{1, 1}},
	GRBG: {G1: image.Point{0, 0}, R: image.Point{1, 0}, B: image.Point{0, 1}, G2: image.Point{1, 1}},
	GBRG: {G1: image.Point{0, 0}, B: image.Point{1, 0}, R: image.Point{0, 1}, G2: image.Point{1, 1}},
}

// Offsets returns the 2x2 tile template for a Bayer layout. ok is
// false for XTrans, which has no 2x2 template.
func (l Layout)Offsets() (BayerOffsets, bool) {
	off, ok := bayerOffsets[l]
	return off, ok
}

// The X-Trans 6x6 tile, as published in dcraw for the Fujifilm sensors.
// 8 red, 20 green and 8 blue cells per tile; every aligned 3x3 quadrant
// holds exactly 2 R, 5 G and 2 B. Fixed by the hardware; do not derive.
var xtransTile = [6][6]Channel{
	{Green, Green, Red, Green, Green, Blue},
	{Green, Green, Blue, Green, Green, Red},
	{Blue, Red, Green, Red, Blue, Green},
	{Green, Green, Blue, Green, Green, Red},
	{Green, Green, Red, Green, Green, Blue},
	{Red, Blue, Green, Blue, Red, Green},
}

// XTransTile returns the fixed 6x6 channel-per-cell assignment,
// indexed [row][col].
func XTransTile() [6][6]Channel {
	return xtransTile
}

// At reports which channel the mosaic puts at grid position (x, y),
// for any layout.
func (l Layout)At(x, y int) Channel {
	if l == XTrans {
		return xtransTile[y%6][x%6]
	}
	off, _ := l.Offsets()
	p := image.Point{x & 1, y & 1}
	switch p {
	case off.R:
		return Red
	case off.B:
		return Blue
	}
	return Green
}
