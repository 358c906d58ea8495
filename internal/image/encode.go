package image

import (
	"bytes"
	"fmt"
	stdimage "image"
	"image/jpeg"

	"golang.org/x/image/draw"
)

// DefaultMaxSide bounds the longest side of images sent to captioning models.
const DefaultMaxSide = 1024

// EncodeForModel converts a decoded image into the payload uploaded to a
// captioning model: scaled down so the longest side is at most maxSide
// (maxSide <= 0 disables scaling) and JPEG encoded.
func EncodeForModel(img stdimage.Image, maxSide int) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("no image to encode")
	}

	src := img
	if w, h := Fit(img.Bounds().Dx(), img.Bounds().Dy(), maxSide); w != img.Bounds().Dx() || h != img.Bounds().Dy() {
		dst := stdimage.NewRGBA(stdimage.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// Fit returns the dimensions of a w x h image scaled to fit in a
// maxSide x maxSide box, preserving the aspect ratio. Images already inside
// the box keep their size.
func Fit(w, h, maxSide int) (int, int) {
	if maxSide <= 0 || (w <= maxSide && h <= maxSide) {
		return w, h
	}
	if w >= h {
		nh := h * maxSide / w
		return maxSide, max(nh, 1)
	}
	nw := w * maxSide / h
	return max(nw, 1), maxSide
}
