package spec

import "image/color"

// the number of entries in palette RAM
const PaletteEntries = 64

// DefaultPalette is the TMS9918A palette in 12bit 0x0RGB format. Entry zero
// is transparent and is shown as the backdrop colour
var DefaultPalette = [16]uint16{
	0x0000, // transparent
	0x0000, // black
	0x02c4, // medium green
	0x05d7, // light green
	0x055e, // dark blue
	0x077f, // light blue
	0x0d54, // dark red
	0x04ef, // cyan
	0x0f55, // medium red
	0x0f77, // light red
	0x0dc5, // dark yellow
	0x0ec8, // light yellow
	0x02b3, // dark green
	0x0c5b, // magenta
	0x0ccc, // grey
	0x0fff, // white
}

// RGB12 converts a 12bit 0x0RGB value to a colour
func RGB12(c uint16) color.RGBA {
	r := uint8((c >> 8) & 0x0f)
	g := uint8((c >> 4) & 0x0f)
	b := uint8(c & 0x0f)
	return color.RGBA{R: r * 17, G: g * 17, B: b * 17, A: 255}
}
