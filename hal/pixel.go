package hal

// color565 is one framebuffer pixel, stored little-endian.
type color565 uint16

const white565 color565 = 0xFFFF

func pack565(r, g, b uint8) color565 {
	return color565(r>>3)<<11 | color565(g>>2)<<5 | color565(b>>3)
}

// load reads the pixel at byte offset off.
func load565(buf []byte, off int) color565 {
	return color565(buf[off]) | color565(buf[off+1])<<8
}

// fill writes c into every pixel of buf.
func (c color565) fill(buf []byte) {
	lo, hi := byte(c), byte(c>>8)
	for i := 0; i+1 < len(buf); i += 2 {
		buf[i] = lo
		buf[i+1] = hi
	}
}

// rgb expands to 8 bits per channel by replicating the high bits, so
// white565 maps to 0xFF in every channel.
func (c color565) rgb() (r, g, b uint8) {
	r5 := uint8(c>>11) & 0x1F
	g6 := uint8(c>>5) & 0x3F
	b5 := uint8(c) & 0x1F
	return r5<<3 | r5>>2, g6<<2 | g6>>4, b5<<3 | b5>>2
}

// RGB565 packs 8-bit channels into the framebuffer pixel format.
func RGB565(r, g, b uint8) uint16 { return uint16(pack565(r, g, b)) }

// PutRGB565 stores p at byte offset off of an RGB565 buffer.
func PutRGB565(buf []byte, off int, p uint16) {
	buf[off], buf[off+1] = byte(p), byte(p>>8)
}
