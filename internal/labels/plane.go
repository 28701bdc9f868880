// Package labels provides the label raster store: a stack of integer label
// planes, IJV flattening, and overlap-aware restructuring.
package labels

// Plane is a fixed-shape, mutable-content grid of object identifiers.
// Zero means background; a positive value is the id of the object that
// claims the pixel.
type Plane struct {
	rows, cols int
	data       []int
}

// NewPlane creates an all-background plane with the given shape.
func NewPlane(rows, cols int) *Plane {
	return &Plane{rows: rows, cols: cols, data: make([]int, rows*cols)}
}

// PlaneFromData creates a plane wrapping a row-major id slice. The slice
// length must be rows*cols; ownership passes to the plane.
func PlaneFromData(rows, cols int, data []int) *Plane {
	if len(data) != rows*cols {
		panic("labels: plane data length does not match shape")
	}
	return &Plane{rows: rows, cols: cols, data: data}
}

// Rows returns the number of rows.
func (p *Plane) Rows() int { return p.rows }

// Cols returns the number of columns.
func (p *Plane) Cols() int { return p.cols }

// Get returns the id at (row, col).
func (p *Plane) Get(row, col int) int {
	return p.data[row*p.cols+col]
}

// Set stores id at (row, col).
func (p *Plane) Set(row, col, id int) {
	p.data[row*p.cols+col] = id
}

// Clone returns a deep copy of the plane.
func (p *Plane) Clone() *Plane {
	data := make([]int, len(p.data))
	copy(data, p.data)
	return &Plane{rows: p.rows, cols: p.cols, data: data}
}

// Empty reports whether the plane holds no labeled pixels.
func (p *Plane) Empty() bool {
	for _, v := range p.data {
		if v != 0 {
			return false
		}
	}
	return true
}

// MaxID returns the largest id present in the plane.
func (p *Plane) MaxID() int {
	max := 0
	for _, v := range p.data {
		if v > max {
			max = v
		}
	}
	return max
}

// Mask returns a row-major boolean mask of the pixels claimed by id.
func (p *Plane) Mask(id int) []bool {
	mask := make([]bool, len(p.data))
	for i, v := range p.data {
		if v == id {
			mask[i] = true
		}
	}
	return mask
}

// ClearID zeroes every pixel claimed by id.
func (p *Plane) ClearID(id int) {
	for i, v := range p.data {
		if v == id {
			p.data[i] = 0
		}
	}
}
