package whiteboard

import (
	"image"
	"image/color"
	"math"
)

// Brushes up to this radius are stamped along a Bresenham path; wider ones
// are filled as a capsule over the covered pixels.
const maxStampRadius = 8

// stamp paints a filled disc of the given diameter centred on p
func stamp(img *image.RGBA, p image.Point, size int, col color.RGBA) {
	r := size / 2
	if r < 1 {
		if p.In(img.Rect) {
			img.SetRGBA(p.X, p.Y, col)
		}
		return
	}
	box := image.Rect(p.X-r, p.Y-r, p.X+r+1, p.Y+r+1).Intersect(img.Rect)
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			dx, dy := x-p.X, y-p.Y
			if dx*dx+dy*dy <= r*r {
				img.SetRGBA(x, y, col)
			}
		}
	}
}

// line paints the brush along the segment from a to b. Only the part of the
// segment that can reach the canvas is visited.
func line(img *image.RGBA, a, b image.Point, size int, col color.RGBA) {
	r := size / 2
	if r > maxStampRadius {
		capsule(img, a, b, float64(r), col)
		return
	}
	a, b, ok := clipSegment(a, b, img.Rect.Inset(-r))
	if !ok {
		return
	}

	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	err := dx + dy
	p := a
	for {
		stamp(img, p, size, col)
		if p == b {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			p.X += sx
		}
		if e2 <= dx {
			err += dx
			p.Y += sy
		}
	}
}

// capsule paints every canvas pixel within r of the segment a-b
func capsule(img *image.RGBA, a, b image.Point, r float64, col color.RGBA) {
	box, ok := coveredBox(img.Rect,
		math.Min(float64(a.X), float64(b.X))-r, math.Min(float64(a.Y), float64(b.Y))-r,
		math.Max(float64(a.X), float64(b.X))+r, math.Max(float64(a.Y), float64(b.Y))+r)
	if !ok {
		return
	}

	ax, ay := float64(a.X), float64(a.Y)
	vx, vy := float64(b.X)-ax, float64(b.Y)-ay
	vv := vx*vx + vy*vy
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			px, py := float64(x)-ax, float64(y)-ay
			t := 0.0
			if vv > 0 {
				t = math.Max(0, math.Min(1, (px*vx+py*vy)/vv))
			}
			ex, ey := px-t*vx, py-t*vy
			if ex*ex+ey*ey <= r*r {
				img.SetRGBA(x, y, col)
			}
		}
	}
}

// clipSegment trims a-b to the part inside rect (Liang-Barsky). Endpoints
// already inside are returned unchanged.
func clipSegment(a, b image.Point, rect image.Rectangle) (image.Point, image.Point, bool) {
	if a.In(rect) && b.In(rect) {
		return a, b, true
	}
	x0, y0 := float64(a.X), float64(a.Y)
	dx, dy := float64(b.X)-x0, float64(b.Y)-y0
	minX, minY := float64(rect.Min.X), float64(rect.Min.Y)
	maxX, maxY := float64(rect.Max.X-1), float64(rect.Max.Y-1)

	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, x0 - minX},
		{dx, maxX - x0},
		{-dy, y0 - minY},
		{dy, maxY - y0},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return a, b, false
			}
			t0 = math.Max(t0, t)
		} else {
			if t < t0 {
				return a, b, false
			}
			t1 = math.Min(t1, t)
		}
	}

	ca, cb := a, b
	if t0 > 0 {
		ca = image.Pt(int(math.Round(x0+t0*dx)), int(math.Round(y0+t0*dy)))
	}
	if t1 < 1 {
		cb = image.Pt(int(math.Round(x0+t1*dx)), int(math.Round(y0+t1*dy)))
	}
	return ca, cb, true
}

// coveredBox converts a float bounding box to the canvas pixels it covers
func coveredBox(canvas image.Rectangle, minX, minY, maxX, maxY float64) (image.Rectangle, bool) {
	if maxX < float64(canvas.Min.X) || maxY < float64(canvas.Min.Y) ||
		minX >= float64(canvas.Max.X) || minY >= float64(canvas.Max.Y) {
		return image.Rectangle{}, false
	}
	box := image.Rect(
		int(math.Max(math.Floor(minX), float64(canvas.Min.X))),
		int(math.Max(math.Floor(minY), float64(canvas.Min.Y))),
		int(math.Min(math.Ceil(maxX)+1, float64(canvas.Max.X))),
		int(math.Min(math.Ceil(maxY)+1, float64(canvas.Max.Y))),
	)
	return box, !box.Empty()
}

// rectangle outlines the box spanned by two corners
func rectangle(img *image.RGBA, a, b image.Point, size int, col color.RGBA) {
	c1 := image.Pt(b.X, a.Y)
	c2 := image.Pt(a.X, b.Y)
	line(img, a, c1, size, col)
	line(img, c1, b, size, col)
	line(img, b, c2, size, col)
	line(img, c2, a, size, col)
}

// circle outlines a circle centred on a passing through b. Circles larger
// than the canvas are painted as a ring over the canvas pixels.
func circle(img *image.RGBA, a, b image.Point, size int, col color.RGBA) {
	radius := math.Hypot(float64(b.X-a.X), float64(b.Y-a.Y))
	if radius < 1 {
		stamp(img, a, size, col)
		return
	}
	diag := math.Hypot(float64(img.Rect.Dx()), float64(img.Rect.Dy()))
	if radius > diag || size/2 > maxStampRadius {
		ring(img, a, radius, math.Max(float64(size)/2, 0.5), col)
		return
	}

	steps := int(2*math.Pi*radius) + 8
	prev := image.Pt(a.X+int(math.Round(radius)), a.Y)
	for i := 1; i <= steps; i++ {
		theta := 2 * math.Pi * float64(i) / float64(steps)
		next := image.Pt(
			a.X+int(math.Round(radius*math.Cos(theta))),
			a.Y+int(math.Round(radius*math.Sin(theta))),
		)
		line(img, prev, next, size, col)
		prev = next
	}
}

// ring paints every canvas pixel within half of the outline of the circle
// of the given radius around c
func ring(img *image.RGBA, c image.Point, radius, half float64, col color.RGBA) {
	cx, cy := float64(c.X), float64(c.Y)
	outer := radius + half
	box, ok := coveredBox(img.Rect, cx-outer, cy-outer, cx+outer, cy+outer)
	if !ok {
		return
	}
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			d := math.Hypot(float64(x)-cx, float64(y)-cy)
			if math.Abs(d-radius) <= half {
				img.SetRGBA(x, y, col)
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
