package config

// Target is the device the page is applied to
type Target interface {
	Register(idx uint8) uint8
	SetRegister(idx uint8, v uint8)
	SetPaletteEntry(idx int, rgb uint16)
}

// the registers changed by Apply()
const (
	regSpriteLimit = 30
	regControl     = 50
	crtBit         = 0x04
)

// Apply the page to the target. The first 16 palette entries, the scanline
// sprite limit and the CRT scanline bit are set
func (p *Page) Apply(t Target) {
	r := t.Register(regControl)
	if p[CRTScanlines] != 0 {
		r |= crtBit
	} else {
		r &^= crtBit
	}
	t.SetRegister(regControl, r)

	t.SetRegister(regSpriteLimit, p.SpriteLimit())

	for i := range PaletteEntries {
		t.SetPaletteEntry(i, p.PaletteEntry(i)&0x0fff)
	}

	p.UpdateDiag()
}
