// Package maskgen derives binary product masks from image transparency.
//
// threshold.go contains the pure pixel-level atoms: alpha plane extraction
// and threshold binarization. These have no dependencies beyond the stdlib
// image types.
package maskgen

import (
	"image"
)

// AlphaPlane extracts the alpha channel of an image as a grayscale plane.
// Images without an alpha channel (JPEG, opaque GIF palettes) yield a plane
// that is 255 everywhere, i.e. fully opaque.
//
// This is a pure function with no side effects.
func AlphaPlane(img image.Image) *image.Gray {
	bounds := img.Bounds()
	plane := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			// RGBA() returns 16-bit channels; alpha is unaffected by
			// premultiplication, so the high byte is the 8-bit alpha.
			_, _, _, a := img.At(x, y).RGBA()
			plane.Pix[i] = uint8(a >> 8)
			i++
		}
	}

	return plane
}

// Binarize converts a grayscale plane into a binary mask using the product
// mask convention: values above the threshold become 0 (foreground/product),
// everything else becomes 255 (background).
//
// The comparison is a strict inequality: a pixel exactly at the threshold is
// background. Note that applying Binarize to an already-binary plane inverts
// it (0 -> 255, 255 -> 0); a second application restores the original.
//
// This is a pure function; the input plane is not modified.
func Binarize(plane *image.Gray, threshold uint8) *image.Gray {
	mask := image.NewGray(plane.Bounds())
	for i, v := range plane.Pix {
		if v > threshold {
			mask.Pix[i] = 0
		} else {
			mask.Pix[i] = 255
		}
	}
	return mask
}

// IsBinary reports whether every pixel of the plane is exactly 0 or 255.
func IsBinary(plane *image.Gray) bool {
	for _, v := range plane.Pix {
		if v != 0 && v != 255 {
			return false
		}
	}
	return true
}
