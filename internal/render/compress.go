// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"golang.org/x/image/draw"

	"github.com/koortimativa/rgi-engine/pkg/types"
)

// EncodeJPEG downscales src to the profile's target width (aspect ratio
// preserved, narrower images untouched) and encodes it as JPEG at the
// profile's quality.
func EncodeJPEG(src image.Image, profile types.CompressionProfile) ([]byte, error) {
	img := Downscale(src, profile.TargetWidth)

	quality := profile.Quality
	if quality <= 0 || quality > 100 {
		quality = types.StandardProfile.Quality
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// Downscale resizes src so its width is at most targetWidth, using
// Catmull-Rom resampling. Images at or below the target are returned as-is.
func Downscale(src image.Image, targetWidth int) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if targetWidth <= 0 || w <= targetWidth {
		return src
	}

	newH := h * targetWidth / w
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, targetWidth, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}
