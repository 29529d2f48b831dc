package maskgen

import (
	"image"

	"golang.org/x/image/draw"
)

// ResizeBilinear resizes a grayscale plane to the given dimensions using
// linear interpolation.
//
// Linear interpolation is deliberate: the mask pipeline relies on the soft
// gray ramp it produces at mask boundaries, which the follow-up re-threshold
// turns into a smoother binary edge than nearest-neighbor would give.
// Callers that need a binary result must re-apply Binarize afterwards,
// because interpolation introduces intermediate values along edges.
func ResizeBilinear(src *image.Gray, width, height int) *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// Supersample scales a plane up by an integer factor using linear
// interpolation. The factor must be positive.
func Supersample(src *image.Gray, factor int) *image.Gray {
	bounds := src.Bounds()
	return ResizeBilinear(src, bounds.Dx()*factor, bounds.Dy()*factor)
}
