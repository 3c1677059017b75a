package shadows

import "chosenoffset.com/lightcaster/internal/core/geom"

// Grid is a tile map in which '#' cells block sight.
type Grid struct {
	Rows     []string
	TileSize float64
	Origin   Point // world position of the top-left tile corner
}

// Width returns the length of the longest row.
func (g *Grid) Width() int {
	w := 0
	for _, row := range g.Rows {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}

// Height returns the number of rows.
func (g *Grid) Height() int {
	return len(g.Rows)
}

// BlocksSight returns whether the tile at the given coordinates blocks line of sight
func (g *Grid) BlocksSight(x, y int) bool {
	if y < 0 || y >= len(g.Rows) || x < 0 || x >= len(g.Rows[y]) {
		return false
	}
	return g.Rows[y][x] == '#'
}

// gridEdge is an exposed tile edge in tile-corner coordinates. Edges run
// clockwise around their region in screen space (y down).
type gridEdge struct {
	A, B     Coord
	EdgeType string // "top", "bottom", "left", "right"
}

// CreateWallObstaclesFromGrid extracts the outline of every contiguous
// sight-blocking region as closed obstacles. Colinear tile edges are merged
// so each straight wall run is a single segment.
func CreateWallObstaclesFromGrid(g *Grid) []*Obstacle {
	width, height := g.Width(), g.Height()

	// Step 1: Find all contiguous regions of sight-blocking tiles
	regions := findContiguousRegions(g, width, height)

	var obstacles []*Obstacle
	for _, region := range regions {
		// Step 2: Extract perimeter edges for the region
		edges := extractPerimeterEdges(region)

		// Step 3: Merge colinear edges to create longer wall segments
		edges = mergeColinearEdges(edges)

		// Step 4: Chain edges into closed outlines
		for _, loop := range chainLoops(edges) {
			points := make([]Point, len(loop))
			for i, c := range loop {
				points[i] = g.Origin.Add(geom.V(float64(c.X), float64(c.Y)).Scale(g.TileSize))
			}
			obstacles = append(obstacles, NewPolygon(points...))
		}
	}
	return obstacles
}

// findContiguousRegions identifies all connected regions of sight-blocking tiles
func findContiguousRegions(g *Grid, width, height int) [][]Coord {
	visited := make(map[Coord]bool)
	var regions [][]Coord

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			coord := Coord{X: x, Y: y}
			if visited[coord] || !g.BlocksSight(x, y) {
				continue
			}

			region := floodFill(g, coord, width, height, visited)
			if len(region) > 0 {
				regions = append(regions, region)
			}
		}
	}

	return regions
}

// floodFill performs BFS to find all connected sight-blocking tiles
func floodFill(g *Grid, start Coord, width, height int, visited map[Coord]bool) []Coord {
	var region []Coord
	queue := []Coord{start}
	visited[start] = true

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		region = append(region, current)

		// 4-connected only; diagonal neighbours form separate regions
		neighbors := []Coord{
			{X: current.X, Y: current.Y - 1}, // North
			{X: current.X + 1, Y: current.Y}, // East
			{X: current.X, Y: current.Y + 1}, // South
			{X: current.X - 1, Y: current.Y}, // West
		}

		for _, neighbor := range neighbors {
			if neighbor.X < 0 || neighbor.X >= width || neighbor.Y < 0 || neighbor.Y >= height {
				continue
			}
			if visited[neighbor] || !g.BlocksSight(neighbor.X, neighbor.Y) {
				continue
			}

			visited[neighbor] = true
			queue = append(queue, neighbor)
		}
	}

	return region
}

// extractPerimeterEdges finds all exposed edges of a region
func extractPerimeterEdges(region []Coord) []gridEdge {
	regionSet := make(map[Coord]bool, len(region))
	for _, coord := range region {
		regionSet[coord] = true
	}

	var edges []gridEdge
	for _, coord := range region {
		x, y := coord.X, coord.Y

		if !regionSet[Coord{X: x, Y: y - 1}] {
			edges = append(edges, gridEdge{A: Coord{x, y}, B: Coord{x + 1, y}, EdgeType: "top"})
		}
		if !regionSet[Coord{X: x + 1, Y: y}] {
			edges = append(edges, gridEdge{A: Coord{x + 1, y}, B: Coord{x + 1, y + 1}, EdgeType: "right"})
		}
		if !regionSet[Coord{X: x, Y: y + 1}] {
			edges = append(edges, gridEdge{A: Coord{x + 1, y + 1}, B: Coord{x, y + 1}, EdgeType: "bottom"})
		}
		if !regionSet[Coord{X: x - 1, Y: y}] {
			edges = append(edges, gridEdge{A: Coord{x, y + 1}, B: Coord{x, y}, EdgeType: "left"})
		}
	}

	return edges
}

// mergeColinearEdges combines adjacent parallel edges into longer edges
func mergeColinearEdges(edges []gridEdge) []gridEdge {
	if len(edges) == 0 {
		return edges
	}

	merged := make([]bool, len(edges))
	var result []gridEdge

	for i := 0; i < len(edges); i++ {
		if merged[i] {
			continue
		}

		current := edges[i]
		merged[i] = true

		// Keep extending until nothing else joins on either end
		extended := true
		for extended {
			extended = false

			for j := 0; j < len(edges); j++ {
				if merged[j] {
					continue
				}
				if next, ok := mergeEdges(current, edges[j]); ok {
					current = next
					merged[j] = true
					extended = true
					break
				}
			}
		}

		result = append(result, current)
	}

	return result
}

// mergeEdges joins two edges of the same type that meet end to start.
// Both run in the same direction, so the result keeps that direction.
func mergeEdges(e1, e2 gridEdge) (gridEdge, bool) {
	if e1.EdgeType != e2.EdgeType {
		return gridEdge{}, false
	}
	switch {
	case e1.B == e2.A:
		return gridEdge{A: e1.A, B: e2.B, EdgeType: e1.EdgeType}, true
	case e2.B == e1.A:
		return gridEdge{A: e2.A, B: e1.B, EdgeType: e1.EdgeType}, true
	}
	return gridEdge{}, false
}

// chainLoops links edges end to start into closed vertex loops. Every corner
// of a region outline has as many edges leaving as arriving, so each walk
// returns to where it began.
func chainLoops(edges []gridEdge) [][]Coord {
	outgoing := make(map[Coord][]int, len(edges))
	for i, e := range edges {
		outgoing[e.A] = append(outgoing[e.A], i)
	}

	used := make([]bool, len(edges))
	var loops [][]Coord

	for i := range edges {
		if used[i] {
			continue
		}

		var loop []Coord
		cur := i
		for {
			used[cur] = true
			loop = append(loop, edges[cur].A)

			next := -1
			for _, j := range outgoing[edges[cur].B] {
				if !used[j] {
					next = j
					break
				}
			}
			if next < 0 {
				break
			}
			cur = next
		}

		if len(loop) >= 3 {
			loops = append(loops, loop)
		}
	}

	return loops
}
