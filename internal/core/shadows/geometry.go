package shadows

// IsFacingPoint checks if a segment is facing towards a given point
// Uses cross product to determine if the point is on the "front" side of the segment
func IsFacingPoint(seg Segment, point Point) bool {
	return seg.End.Sub(seg.Start).Cross(point.Sub(seg.Start)) > 0
}

// PointInPolygon tests if a point is inside a polygon using ray casting algorithm
func PointInPolygon(point Point, polygon []Point) bool {
	inside := false
	j := len(polygon) - 1

	for i := 0; i < len(polygon); i++ {
		xi, yi := polygon[i].X, polygon[i].Y
		xj, yj := polygon[j].X, polygon[j].Y

		if ((yi > point.Y) != (yj > point.Y)) &&
			(point.X < (xj-xi)*(point.Y-yi)/(yj-yi)+xi) {
			inside = !inside
		}
		j = i
	}

	return inside
}

// Fan returns the closed outline of a visibility polygon: the light position
// followed by the boundary points.
func Fan(origin Point, boundary []Point) []Point {
	fan := make([]Point, 0, len(boundary)+1)
	fan = append(fan, origin)
	return append(fan, boundary...)
}

// PolygonArea returns the unsigned area of a simple polygon.
func PolygonArea(polygon []Point) float64 {
	area := 0.0
	j := len(polygon) - 1
	for i := range polygon {
		area += polygon[j].Cross(polygon[i])
		j = i
	}
	if area < 0 {
		area = -area
	}
	return area / 2
}
