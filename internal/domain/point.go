package domain

// A collection point selected by the user during a planning session.
// Points are immutable once selected; the ID must be unique within a request.
type Point struct {
	ID   string      `json:"id"`
	Name string      `json:"name,omitempty"`
	Loc  Coordinates `json:"location"`
}

// Depot is the fixed start/end location for a municipal area.
type Depot struct {
	Area string      `json:"area"`
	Name string      `json:"name"`
	Loc  Coordinates `json:"location"`
}

// Point returns the depot as a tour point. The depot ID is prefixed with
// "depot:" so it never collides with collection point IDs.
func (d Depot) Point() Point {
	return Point{ID: "depot:" + d.Area, Name: d.Name, Loc: d.Loc}
}

// Tour is an ordered visiting sequence: depot, stop1..stopN, depot.
// It is empty when no collection points were selected.
type Tour []Point

// Coordinates returns the tour positions in visiting order.
func (t Tour) Coordinates() []Coordinates {
	out := make([]Coordinates, 0, len(t))
	for _, p := range t {
		out = append(out, p.Loc)
	}
	return out
}

// Stops returns the tour without the depot at either end.
func (t Tour) Stops() []Point {
	if len(t) <= 2 {
		return []Point{}
	}
	out := make([]Point, len(t)-2)
	copy(out, t[1:len(t)-1])
	return out
}
