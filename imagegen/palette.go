package imagegen

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/cenkalti/dominantcolor"
)

// DominantColorHint extracts the dominant color of the product image and
// phrases it as a prompt fragment, so the generated background harmonizes
// with the product instead of clashing with it.
func DominantColorHint(imagePath string) (string, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("imagegen: reading product image: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("imagegen: decoding product image: %w", err)
	}

	c := dominantcolor.Find(img)
	return "complementing the product's dominant color " + dominantcolor.Hex(c), nil
}
