package raster

import "golang.org/x/exp/slices"

// Strip is a run of consecutive tile columns on one tile row that share a
// single contiguous alpha block, matching spec §3's Strip.
type Strip struct {
	PosX, PosY   uint16
	Width        uint16
	FillPrevious bool
}

// Strips is the rasterizer's output: a sparse list of strips plus the
// packed alpha data they reference, matching strip.rs's Strips/AlphaBuffer.
type Strips struct {
	strips []Strip
	alpha  []byte // row-major: for strip i, 4 rows of strips[i].Width*4 bytes each, concatenated across strips in order
}

const superSample = 4

// cellKey identifies one 4x4 tile cell.
type cellKey struct{ x, y uint16 }

// Rasterize sorts accumulated tiles, merges edges that land in the same
// tile cell, computes each cell's antialiased coverage, and groups
// adjacent cells on a row into Strips, tracking fill_previous from the
// accumulated winding of tiles whose edge fully crosses a tile's top
// (matching strip.rs's rasterize/intersects_top bookkeeping).
func (r *StripRasterizer) Rasterize() *Strips {
	slices.SortFunc(r.tiles, func(a, b Tile) int {
		if a.PosY != b.PosY {
			return int(a.PosY) - int(b.PosY)
		}
		return int(a.PosX) - int(b.PosX)
	})

	type cell struct {
		key      cellKey
		lines    []Tile
		carry    int
		coverage [tileSize * tileSize]byte
	}
	var cells []cell
	for _, t := range r.tiles {
		k := cellKey{t.PosX, t.PosY}
		if n := len(cells); n > 0 && cells[n-1].key == k {
			cells[n-1].lines = append(cells[n-1].lines, t)
		} else {
			cells = append(cells, cell{key: k, lines: []Tile{t}})
		}
	}
	for i := range cells {
		c := &cells[i]
		c.coverage = rasterizeCell(c.lines)
		for _, t := range c.lines {
			if t.IntersectsTop {
				c.carry += int(t.Winding)
			}
		}
	}

	out := &Strips{}
	i := 0
	for i < len(cells) {
		row := cells[i].key.y
		stripWinding := 0
		for i < len(cells) && cells[i].key.y == row {
			start := i
			stripX := cells[i].key.x
			end := stripX
			for i < len(cells) && cells[i].key.y == row && cells[i].key.x == end {
				end++
				i++
			}
			width := end - stripX
			fillPrevious := stripWinding != 0

			block := make([]byte, tileSize*int(width)*tileSize)
			for col := 0; col < int(width); col++ {
				cov := cells[start+col].coverage
				for row4 := 0; row4 < tileSize; row4++ {
					copy(block[row4*int(width)*tileSize+col*tileSize:][:tileSize], cov[row4*tileSize:row4*tileSize+tileSize])
				}
			}
			out.alpha = append(out.alpha, block...)
			out.strips = append(out.strips, Strip{PosX: stripX, PosY: row, Width: width, FillPrevious: fillPrevious})

			for _, c := range cells[start : start+int(width)] {
				stripWinding += c.carry
			}
		}
	}
	return out
}

// rasterizeCell computes a tile's 4×4 coverage buffer by ray-casting
// supersample*supersample sub-positions per texel against the cell's
// edges under the non-zero winding rule (see package doc for why this
// supersampling approach stands in for strip.rs's analytic tile fill).
func rasterizeCell(lines []Tile) [tileSize * tileSize]byte {
	var out [tileSize * tileSize]byte
	for ty := 0; ty < tileSize; ty++ {
		for tx := 0; tx < tileSize; tx++ {
			hits := 0
			for j := 0; j < superSample; j++ {
				sy := float64(ty) + (float64(j)+0.5)/superSample
				for i := 0; i < superSample; i++ {
					sx := float64(tx) + (float64(i)+0.5)/superSample
					winding := 0
					for _, t := range lines {
						l := t.Line
						if l.TopY == l.BottomY {
							continue
						}
						if sy < l.BottomY || sy >= l.TopY {
							continue
						}
						x := l.BottomX + (sy-l.BottomY)/(l.TopY-l.BottomY)*(l.TopX-l.BottomX)
						// Ray cast leftward from the sample point: an edge
						// crossing to its left counts toward the winding sum.
						if x < sx {
							winding += int(t.Winding)
						}
					}
					if winding != 0 {
						hits++
					}
				}
			}
			coverage := float64(hits) / float64(superSample*superSample)
			out[ty*tileSize+tx] = byte(coverage*255 + 0.5)
		}
	}
	return out
}
