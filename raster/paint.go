package raster

// PaintTo composites the rasterized strips into an 8bpp buffer of the
// given width/height/stride, matching strip.rs's Strips::paint_to: each
// strip's alpha block is copied row-by-row at (PosX*4, PosY*4); any gap
// between the previous strip's right edge and a FillPrevious strip's left
// edge on the same row is painted solid (0xFF), representing interior
// coverage the rasterizer never had to store tile data for.
func (s *Strips) PaintTo(buffer []byte, width, height, stride int) {
	offset := 0
	lastX := -1
	lastY := uint16(0)
	for _, strip := range s.strips {
		if strip.PosY != lastY {
			lastX = -1
		}
		lastY = strip.PosY

		outX := int(strip.PosX) * tileSize
		outY := int(strip.PosY) * tileSize

		if lastX >= 0 && lastX < outX && strip.FillPrevious {
			fillGap(buffer, width, height, stride, lastX, outY, outX-lastX)
		}

		blockWidth := int(strip.Width) * tileSize
		blockLen := blockWidth * tileSize
		block := s.alpha[offset : offset+blockLen]
		offset += blockLen

		if outY < height && outX < width {
			copyWidth := blockWidth
			if outX+copyWidth > width {
				copyWidth = width - outX
			}
			rows := height - outY
			if rows > tileSize {
				rows = tileSize
			}
			for row := 0; row < rows; row++ {
				dst := buffer[(outY+row)*stride+outX:]
				src := block[row*blockWidth:]
				copy(dst[:copyWidth], src[:copyWidth])
			}
		}

		lastX = outX + blockWidth
	}
}

func fillGap(buffer []byte, width, height, stride, x, y, w int) {
	if y >= height || x >= width {
		return
	}
	if x+w > width {
		w = width - x
	}
	rows := height - y
	if rows > tileSize {
		rows = tileSize
	}
	for row := 0; row < rows; row++ {
		dst := buffer[(y+row)*stride+x:]
		for i := 0; i < w; i++ {
			dst[i] = 0xFF
		}
	}
}

// Strips exposes its strip list read-only, primarily for tests.
func (s *Strips) Len() int { return len(s.strips) }
