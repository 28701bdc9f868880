// Package contour extracts ordered boundary chains from label rasters and
// reduces them to editable control-point chains.
package contour

// Connectivity selects the neighbor rule for connected-component labeling.
type Connectivity int

const (
	// Connect4 groups pixels sharing an edge.
	Connect4 Connectivity = 4
	// Connect8 also groups pixels touching diagonally.
	Connect8 Connectivity = 8
)

var (
	offsets4 = [][2]int{{-1, 0}, {0, -1}, {0, 1}, {1, 0}}
	offsets8 = [][2]int{
		{-1, -1}, {-1, 0}, {-1, 1},
		{0, -1}, {0, 1},
		{1, -1}, {1, 0}, {1, 1},
	}
)

// LabelComponents labels the connected components of a row-major boolean
// mask. Returns a row-major component map (0 = unset pixel, components
// numbered from 1 in scan order) and the component count.
func LabelComponents(mask []bool, rows, cols int, conn Connectivity) ([]int, int) {
	offsets := offsets8
	if conn == Connect4 {
		offsets = offsets4
	}
	comp := make([]int, rows*cols)
	count := 0
	var stack []int
	for start, set := range mask {
		if !set || comp[start] != 0 {
			continue
		}
		count++
		comp[start] = count
		stack = append(stack[:0], start)
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			r, c := i/cols, i%cols
			for _, off := range offsets {
				nr, nc := r+off[0], c+off[1]
				if nr < 0 || nr >= rows || nc < 0 || nc >= cols {
					continue
				}
				ni := nr*cols + nc
				if mask[ni] && comp[ni] == 0 {
					comp[ni] = count
					stack = append(stack, ni)
				}
			}
		}
	}
	return comp, count
}
