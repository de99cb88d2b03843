package redact

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/redactkit/redactkit/pkg/ocr"
)

// RedactImage obscures the given regions on a copy of src; the source image
// is never written to. src is the image of one document page, identified by
// page; regions belonging to other pages are ignored. Regions are padded
// per config and clamped to the image bounds; a region that clamps to
// nothing is skipped.
func RedactImage(src image.Image, page int, regions []ocr.Region, cfg Config) (*image.RGBA, error) {
	bounds := src.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)

	for _, region := range regions {
		if region.Page != page {
			continue
		}
		r := region
		r.X -= cfg.Padding
		r.Y -= cfg.Padding
		r.Width += 2 * cfg.Padding
		r.Height += 2 * cfg.Padding
		r = r.Clamp(bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
		if r.IsEmpty() {
			continue
		}
		rect := image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)

		switch cfg.Method {
		case MethodBlackbox:
			blackout(dst, rect)
		case MethodBlur:
			blur(dst, rect, cfg.BlurKernel)
		case MethodPixelate:
			pixelate(dst, rect, cfg.PixelSize)
		default:
			return nil, fmt.Errorf("redact: unknown method %q", cfg.Method)
		}
	}
	return dst, nil
}

// blackout fills the rectangle with solid black.
func blackout(img *image.RGBA, rect image.Rectangle) {
	draw.Draw(img, rect, image.NewUniform(color.Black), image.Point{}, draw.Src)
}

// blur applies a separable Gaussian blur inside the rectangle. Sampling is
// clamped to the rectangle so no pixel outside it influences the result.
func blur(img *image.RGBA, rect image.Rectangle, kernel int) {
	if kernel < 3 {
		kernel = 3
	}
	if kernel%2 == 0 {
		kernel++
	}
	radius := kernel / 2
	weights := gaussianWeights(kernel)

	w, h := rect.Dx(), rect.Dy()
	tmp := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(tmp, tmp.Bounds(), img, rect.Min, draw.Src)

	horiz := image.NewRGBA(tmp.Bounds())
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var rs, gs, bs, as float64
			for k := -radius; k <= radius; k++ {
				c := tmp.RGBAAt(clampInt(x+k, 0, w-1), y)
				wt := weights[k+radius]
				rs += wt * float64(c.R)
				gs += wt * float64(c.G)
				bs += wt * float64(c.B)
				as += wt * float64(c.A)
			}
			horiz.SetRGBA(x, y, color.RGBA{
				R: uint8(rs + 0.5),
				G: uint8(gs + 0.5),
				B: uint8(bs + 0.5),
				A: uint8(as + 0.5),
			})
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var rs, gs, bs, as float64
			for k := -radius; k <= radius; k++ {
				c := horiz.RGBAAt(x, clampInt(y+k, 0, h-1))
				wt := weights[k+radius]
				rs += wt * float64(c.R)
				gs += wt * float64(c.G)
				bs += wt * float64(c.B)
				as += wt * float64(c.A)
			}
			img.SetRGBA(rect.Min.X+x, rect.Min.Y+y, color.RGBA{
				R: uint8(rs + 0.5),
				G: uint8(gs + 0.5),
				B: uint8(bs + 0.5),
				A: uint8(as + 0.5),
			})
		}
	}
}

// gaussianWeights builds a normalized 1D Gaussian kernel.
func gaussianWeights(size int) []float64 {
	sigma := float64(size) / 6
	radius := size / 2
	weights := make([]float64, size)
	sum := 0.0
	for i := range weights {
		d := float64(i - radius)
		weights[i] = math.Exp(-d * d / (2 * sigma * sigma))
		sum += weights[i]
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}

// pixelate downsamples the rectangle to block-sized cells and scales it
// back up with nearest-neighbor sampling.
func pixelate(img *image.RGBA, rect image.Rectangle, block int) {
	if block < 2 {
		block = 2
	}
	dw := (rect.Dx() + block - 1) / block
	dh := (rect.Dy() + block - 1) / block
	small := image.NewRGBA(image.Rect(0, 0, dw, dh))
	xdraw.NearestNeighbor.Scale(small, small.Bounds(), img, rect, xdraw.Src, nil)
	xdraw.NearestNeighbor.Scale(img, rect, small, small.Bounds(), xdraw.Src, nil)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
