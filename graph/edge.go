package graph

// Edge is one input edge: U and V name the two endpoints. HasWeight
// distinguishes a real weight in [0,1) from the "unweighted" sentinel — a
// Graph built with Weighted=false rejects edges that carry one, and a
// Weighted=true Graph rejects edges that don't.
type Edge struct {
	U, V      string
	Weight    float64
	HasWeight bool
}
