// Package graph implements the associative graph memory: an edge list is
// folded into a single aggregate hypervector, and edge membership is then
// answered by unbinding and measuring distance against that one vector
// rather than by walking an adjacency structure.
//
// A Graph owns an hdc.Space (always bipolar, for Bind's self-inverse
// property) plus plain-Go adjacency bookkeeping that records what was
// actually fit, used as ground truth by ErrorRate and ErrorMitigation —
// the lossy hypervector reconstruction is never its own oracle.
package graph
