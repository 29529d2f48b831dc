package maskgen

import (
	"image"
)

// Dilate3x3 grows the 255-valued regions of a binary plane outward by one
// pass of a 3x3 all-ones structuring element: a pixel becomes 255 when any
// pixel in its 3x3 neighborhood is nonzero.
//
// The input is not modified. Out-of-bounds neighbors are treated as 0, so
// regions do not wrap or bleed at the border.
func Dilate3x3(plane *image.Gray) *image.Gray {
	bounds := plane.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			hit := false
			for dy := -1; dy <= 1 && !hit; dy++ {
				ny := y + dy
				if ny < 0 || ny >= h {
					continue
				}
				for dx := -1; dx <= 1; dx++ {
					nx := x + dx
					if nx < 0 || nx >= w {
						continue
					}
					if plane.Pix[ny*plane.Stride+nx] != 0 {
						hit = true
						break
					}
				}
			}
			if hit {
				out.Pix[y*out.Stride+x] = 255
			}
		}
	}

	return out
}
