package render

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// ImageOptions describe one prepared paint cache. Preparation is a
// pure function of these fields plus the source, which is what lets
// callers key their redraw caches on the options alone.
type ImageOptions struct {
	// Outer is the output size in pixels.
	Outer image.Point
	// Radius rounds the selected corners.
	Radius int
	// Corners selects which corners are rounded.
	Corners Corners
	// Blur marks the source as below full quality; the output is
	// softened so rough previews read as previews.
	Blur bool
}

// PrepareImage scales src to cover o.Outer, center-cropped, optionally
// blurred, with the selected corners rounded.
func PrepareImage(src image.Image, o ImageOptions) *image.NRGBA {
	if src == nil || o.Outer.X <= 0 || o.Outer.Y <= 0 {
		return image.NewNRGBA(image.Rectangle{Max: o.Outer})
	}
	out := image.NewNRGBA(image.Rectangle{Max: o.Outer})
	xdraw.ApproxBiLinear.Scale(out, out.Bounds(), src, coverCrop(src.Bounds(), o.Outer), xdraw.Src, nil)
	if o.Blur {
		radius := o.Outer.X / 40
		if radius < 2 {
			radius = 2
		}
		boxBlur(out, radius)
		boxBlur(out, radius)
	}
	if o.Radius > 0 && o.Corners != NoCorners {
		roundCorners(out, o.Radius, o.Corners)
	}
	return out
}

// coverCrop returns the centered sub-rectangle of src whose aspect
// ratio matches outer, so scaling fills the output without letterboxing.
func coverCrop(src image.Rectangle, outer image.Point) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	if sw == 0 || sh == 0 {
		return src
	}
	// Compare aspect ratios without division.
	if sw*outer.Y > outer.X*sh {
		// Source is wider: crop width.
		w := outer.X * sh / outer.Y
		x := src.Min.X + (sw-w)/2
		return image.Rect(x, src.Min.Y, x+w, src.Max.Y)
	}
	h := outer.Y * sw / outer.X
	y := src.Min.Y + (sh-h)/2
	return image.Rect(src.Min.X, y, src.Max.X, y+h)
}

// boxBlur applies one horizontal and one vertical box pass in place.
// Two calls approximate a gaussian closely enough for preview frames.
func boxBlur(img *image.NRGBA, radius int) {
	if radius <= 0 {
		return
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	tmp := make([]uint8, len(img.Pix))
	window := 2*radius + 1

	// Horizontal pass into tmp.
	for y := 0; y < h; y++ {
		row := y * img.Stride
		var sum [4]int
		for x := -radius; x <= radius; x++ {
			i := row + clampInt(x, 0, w-1)*4
			for c := 0; c < 4; c++ {
				sum[c] += int(img.Pix[i+c])
			}
		}
		for x := 0; x < w; x++ {
			i := row + x*4
			for c := 0; c < 4; c++ {
				tmp[i+c] = uint8(sum[c] / window)
			}
			add := row + clampInt(x+radius+1, 0, w-1)*4
			sub := row + clampInt(x-radius, 0, w-1)*4
			for c := 0; c < 4; c++ {
				sum[c] += int(img.Pix[add+c]) - int(img.Pix[sub+c])
			}
		}
	}

	// Vertical pass back into the image.
	for x := 0; x < w; x++ {
		col := x * 4
		var sum [4]int
		for y := -radius; y <= radius; y++ {
			i := clampInt(y, 0, h-1)*img.Stride + col
			for c := 0; c < 4; c++ {
				sum[c] += int(tmp[i+c])
			}
		}
		for y := 0; y < h; y++ {
			i := y*img.Stride + col
			for c := 0; c < 4; c++ {
				img.Pix[i+c] = uint8(sum[c] / window)
			}
			add := clampInt(y+radius+1, 0, h-1)*img.Stride + col
			sub := clampInt(y-radius, 0, h-1)*img.Stride + col
			for c := 0; c < 4; c++ {
				sum[c] += int(tmp[add+c]) - int(tmp[sub+c])
			}
		}
	}
}

// roundCorners zeroes pixels outside the rounded-corner radius for each
// selected corner.
func roundCorners(img *image.NRGBA, radius int, corners Corners) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if radius > w/2 {
		radius = w / 2
	}
	if radius > h/2 {
		radius = h / 2
	}
	r2 := radius * radius
	clear := func(x, y int) {
		i := y*img.Stride + x*4
		img.Pix[i] = 0
		img.Pix[i+1] = 0
		img.Pix[i+2] = 0
		img.Pix[i+3] = 0
	}
	for dy := 0; dy < radius; dy++ {
		for dx := 0; dx < radius; dx++ {
			cx, cy := radius-1-dx, radius-1-dy
			if cx*cx+cy*cy <= r2 {
				continue
			}
			if corners&TopLeft != 0 {
				clear(dx, dy)
			}
			if corners&TopRight != 0 {
				clear(w-1-dx, dy)
			}
			if corners&BottomLeft != 0 {
				clear(dx, h-1-dy)
			}
			if corners&BottomRight != 0 {
				clear(w-1-dx, h-1-dy)
			}
		}
	}
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
