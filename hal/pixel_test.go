package hal

import "testing"

func TestPack565RoundTripsPrimaries(t *testing.T) {
	cases := []struct {
		r, g, b uint8
	}{
		{0xFF, 0xFF, 0xFF},
		{0, 0, 0},
		{0xFF, 0, 0},
		{0, 0xFF, 0},
		{0, 0, 0xFF},
	}
	for _, c := range cases {
		r, g, b := pack565(c.r, c.g, c.b).rgb()
		if r != c.r || g != c.g || b != c.b {
			t.Fatalf("pack565(%#x,%#x,%#x).rgb() = %#x,%#x,%#x", c.r, c.g, c.b, r, g, b)
		}
	}
	if pack565(0xFF, 0xFF, 0xFF) != white565 {
		t.Fatalf("white = %#04x, want %#04x", pack565(0xFF, 0xFF, 0xFF), white565)
	}
}

func TestFillAndLoad565(t *testing.T) {
	buf := make([]byte, 8)
	color565(0xF800).fill(buf)
	if buf[0] != 0x00 || buf[1] != 0xF8 {
		t.Fatalf("fill wrote % x, want little-endian 00 f8", buf[:2])
	}
	if got := load565(buf, 6); got != 0xF800 {
		t.Fatalf("load565 = %#04x, want 0xf800", got)
	}
}

func TestExportedRGB565MatchesFramebufferFill(t *testing.T) {
	fill := make([]byte, 2)
	pack565(0x12, 0xA4, 0xF0).fill(fill)

	put := make([]byte, 2)
	PutRGB565(put, 0, RGB565(0x12, 0xA4, 0xF0))

	if fill[0] != put[0] || fill[1] != put[1] {
		t.Fatalf("PutRGB565 wrote % x, fill wrote % x", put, fill)
	}
}
