package hal

// packPages converts an RGB565 canvas into 1bpp panel pages (8 rows per page,
// LSB on top) and hands each page to write. Any pixel that is not white
// lights a dot. The first write error stops the transfer.
func packPages(buf []byte, width, pages int, cols []byte, write func(page int, cols []byte) error) error {
	cols = cols[:width]
	for p := 0; p < pages; p++ {
		for x := 0; x < width; x++ {
			var bits byte
			for bit := 0; bit < 8; bit++ {
				if load565(buf, ((p*8+bit)*width+x)*2) != white565 {
					bits |= 1 << bit
				}
			}
			cols[x] = bits
		}
		if err := write(p, cols); err != nil {
			return err
		}
	}
	return nil
}
