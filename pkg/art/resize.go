package art

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
)

// Default cell pixel dimensions when the terminal cannot report them.
const (
	defaultCellW = 8
	defaultCellH = 16
)

// resizeToFit scales an image to fit within the given cell box while
// keeping aspect ratio. CatmullRom resampling for quality downscale, then a
// light sharpen to restore edge detail. Images that already fit are
// returned unmodified; covers are never upscaled.
func resizeToFit(img image.Image, maxWidthCells, maxHeightCells int) image.Image {
	if img == nil {
		return nil
	}
	if maxWidthCells <= 0 {
		maxWidthCells = 1
	}
	if maxHeightCells <= 0 {
		maxHeightCells = 1
	}

	maxW := maxWidthCells * defaultCellW
	maxH := maxHeightCells * defaultCellH

	bounds := img.Bounds()
	srcW := bounds.Dx()
	srcH := bounds.Dy()
	if srcW <= 0 || srcH <= 0 {
		return img
	}
	if srcW <= maxW && srcH <= maxH {
		return img
	}

	scale := math.Min(float64(maxW)/float64(srcW), float64(maxH)/float64(srcH))
	dstW := int(math.Round(float64(srcW) * scale))
	dstH := int(math.Round(float64(srcH) * scale))
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}

	dst := image.NewNRGBA(image.Rect(0, 0, dstW, dstH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)

	return imaging.Sharpen(dst, 0.3)
}
