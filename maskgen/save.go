package maskgen

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
)

// EncodePNG serializes a mask plane as PNG bytes.
func EncodePNG(mask *image.Gray) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, mask); err != nil {
		return nil, fmt.Errorf("maskgen: encoding mask: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveMask writes a mask plane to path as PNG, creating parent directories
// as needed.
func SaveMask(mask *image.Gray, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("maskgen: creating mask directory: %w", err)
	}
	data, err := EncodePNG(mask)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("maskgen: writing mask file: %w", err)
	}
	return nil
}
