package maskgen

import (
	"image"
	"math"
)

// Canny runs a dual-threshold Canny edge detector over a grayscale plane and
// returns a binary edge map (255 = edge, 0 = not edge) at the same
// dimensions.
//
// Stages: 3x3 Sobel gradients with clamped border sampling, non-maximum
// suppression along the quantized gradient direction, then hysteresis
// linking -- gradient magnitudes at or above the high threshold seed edges,
// and connected pixels at or above the low threshold extend them.
//
// The caller is expected to hand in an already smoothed or binary plane;
// no blur is applied here.
func Canny(plane *image.Gray, low, high float64) *image.Gray {
	bounds := plane.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	mag, dir := sobelGradients(plane, w, h)
	thin := nonMaxSuppress(mag, dir, w, h)

	edges := image.NewGray(image.Rect(0, 0, w, h))

	// Double threshold: strong pixels are edges immediately, weak pixels
	// become edges only when linked to a strong pixel.
	const (
		none   = 0
		weak   = 1
		strong = 2
	)
	labels := make([]uint8, w*h)
	var stack []int
	for i, m := range thin {
		switch {
		case m >= high:
			labels[i] = strong
			edges.Pix[i] = 255
			stack = append(stack, i)
		case m >= low:
			labels[i] = weak
		}
	}

	// Hysteresis: grow edges into 8-connected weak neighbors.
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%w, i/w

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				ni := ny*w + nx
				if labels[ni] == weak {
					labels[ni] = strong
					edges.Pix[ni] = 255
					stack = append(stack, ni)
				}
			}
		}
	}

	return edges
}

// sobelGradients computes gradient magnitude and quantized direction for
// every pixel using 3x3 Sobel kernels. Border pixels sample their nearest
// in-bounds neighbor.
//
// Directions are quantized to 4 sectors: 0 = horizontal (E-W),
// 1 = diagonal (NE-SW), 2 = vertical (N-S), 3 = diagonal (NW-SE).
func sobelGradients(plane *image.Gray, w, h int) (mag []float64, dir []uint8) {
	mag = make([]float64, w*h)
	dir = make([]uint8, w*h)

	at := func(x, y int) float64 {
		if x < 0 {
			x = 0
		} else if x >= w {
			x = w - 1
		}
		if y < 0 {
			y = 0
		} else if y >= h {
			y = h - 1
		}
		return float64(plane.Pix[y*plane.Stride+x])
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			gx := -at(x-1, y-1) + at(x+1, y-1) +
				-2*at(x-1, y) + 2*at(x+1, y) +
				-at(x-1, y+1) + at(x+1, y+1)
			gy := -at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1) +
				at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1)

			i := y*w + x
			mag[i] = math.Hypot(gx, gy)

			angle := math.Atan2(gy, gx) * 180 / math.Pi
			if angle < 0 {
				angle += 180
			}
			switch {
			case angle < 22.5 || angle >= 157.5:
				dir[i] = 0
			case angle < 67.5:
				dir[i] = 1
			case angle < 112.5:
				dir[i] = 2
			default:
				dir[i] = 3
			}
		}
	}

	return mag, dir
}

// nonMaxSuppress keeps only pixels whose gradient magnitude is a local
// maximum along their gradient direction; all others are zeroed.
func nonMaxSuppress(mag []float64, dir []uint8, w, h int) []float64 {
	out := make([]float64, w*h)

	sample := func(x, y int) float64 {
		if x < 0 || x >= w || y < 0 || y >= h {
			return 0
		}
		return mag[y*w+x]
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			m := mag[i]
			if m == 0 {
				continue
			}

			var a, b float64
			switch dir[i] {
			case 0: // gradient E-W: compare horizontal neighbors
				a, b = sample(x-1, y), sample(x+1, y)
			case 1:
				a, b = sample(x+1, y-1), sample(x-1, y+1)
			case 2: // gradient N-S: compare vertical neighbors
				a, b = sample(x, y-1), sample(x, y+1)
			default:
				a, b = sample(x-1, y-1), sample(x+1, y+1)
			}

			if m >= a && m >= b {
				out[i] = m
			}
		}
	}

	return out
}
