package domain

// Neighbor is one nearest-neighbor hit from the vector index: the row
// position of the product within the current index snapshot and its raw
// distance to the query vector. Lower distance means more similar.
type Neighbor struct {
	Row      int
	Distance float64
}
