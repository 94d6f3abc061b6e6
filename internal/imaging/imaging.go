package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// DefaultThumbnailPx matches the canonical image size the prediction
// endpoint stores and returns.
const DefaultThumbnailPx = 200

// Thumbnail decodes src (jpeg, png, gif, webp) and downscales it so the
// longer edge is at most maxPx, re-encoding the result as JPEG. Images
// already within bounds are re-encoded without resizing.
func Thumbnail(src []byte, maxPx int) ([]byte, error) {
	if maxPx <= 0 {
		maxPx = DefaultThumbnailPx
	}

	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxPx || h > maxPx {
		tw, th := fit(w, h, maxPx)
		dst := image.NewRGBA(image.Rect(0, 0, tw, th))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// Dimensions returns the pixel dimensions of an encoded image without
// decoding the full pixel data.
func Dimensions(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

// fit scales (w, h) so the longer edge equals maxPx, preserving aspect ratio.
func fit(w, h, maxPx int) (int, int) {
	if w >= h {
		th := h * maxPx / w
		if th < 1 {
			th = 1
		}
		return maxPx, th
	}
	tw := w * maxPx / h
	if tw < 1 {
		tw = 1
	}
	return tw, maxPx
}
