// Package geometry provides basic geometric types used throughout the application.
package geometry

import (
	"math"
)

// Point2D represents a 2D point with floating-point coordinates.
// For raster work X is the column and Y is the row.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPoint2D creates a new Point2D.
func NewPoint2D(x, y float64) Point2D {
	return Point2D{X: x, Y: y}
}

// Distance returns the Euclidean distance to another point.
func (p Point2D) Distance(other Point2D) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Add returns the sum of two points.
func (p Point2D) Add(other Point2D) Point2D {
	return Point2D{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns the difference of two points.
func (p Point2D) Sub(other Point2D) Point2D {
	return Point2D{X: p.X - other.X, Y: p.Y - other.Y}
}

// Scale returns the point scaled by a factor.
func (p Point2D) Scale(factor float64) Point2D {
	return Point2D{X: p.X * factor, Y: p.Y * factor}
}

// Midpoint returns the point halfway between p and other.
func (p Point2D) Midpoint(other Point2D) Point2D {
	return Point2D{X: (p.X + other.X) / 2, Y: (p.Y + other.Y) / 2}
}

// PointInt represents a 2D point with integer coordinates.
type PointInt struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ToFloat converts to Point2D.
func (p PointInt) ToFloat() Point2D {
	return Point2D{X: float64(p.X), Y: float64(p.Y)}
}

// Rect represents a rectangle with floating-point coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewRect creates a new Rect.
func NewRect(x, y, width, height float64) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// RectFromCorners creates the axis-aligned rectangle spanned by two
// arbitrary corner points.
func RectFromCorners(a, b Point2D) Rect {
	x0 := math.Min(a.X, b.X)
	y0 := math.Min(a.Y, b.Y)
	return Rect{X: x0, Y: y0, Width: math.Abs(a.X - b.X), Height: math.Abs(a.Y - b.Y)}
}

// Contains returns true if the point is inside the rectangle.
func (r Rect) Contains(p Point2D) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// ContainsStrict returns true if the point is inside the rectangle,
// excluding the right and bottom edges.
func (r Rect) ContainsStrict(p Point2D) bool {
	return p.X >= r.X && p.X < r.X+r.Width &&
		p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point2D {
	return Point2D{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// BoundingBox computes the axis-aligned bounding box of a set of points.
func BoundingBox(points []Point2D) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Centroid computes the centroid (average position) of a set of points.
func Centroid(points []Point2D) Point2D {
	if len(points) == 0 {
		return Point2D{}
	}
	var sumX, sumY float64
	for _, p := range points {
		sumX += p.X
		sumY += p.Y
	}
	n := float64(len(points))
	return Point2D{X: sumX / n, Y: sumY / n}
}

// GenerateCirclePoints generates n evenly-spaced points around a circle.
func GenerateCirclePoints(centerX, centerY, radius float64, n int) []Point2D {
	points := make([]Point2D, n)
	for i := 0; i < n; i++ {
		angle := float64(i) * 2.0 * math.Pi / float64(n)
		points[i] = Point2D{
			X: centerX + radius*math.Cos(angle),
			Y: centerY + radius*math.Sin(angle),
		}
	}
	return points
}
