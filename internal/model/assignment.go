package model

import "sort"

// Noise is the reserved label for records that belong to no cluster.
const Noise = -1

// ClusterAssignment maps each record to an integer cluster label.
// Labels are aligned to the record order of the source matrix.
// An assignment is produced once per fit call and never updated in place.
type ClusterAssignment struct {
	Names  []string `json:"names"`
	Labels []int    `json:"labels"`
}

// NewClusterAssignment creates an assignment for the given record names.
func NewClusterAssignment(names []string, labels []int) ClusterAssignment {
	return ClusterAssignment{
		Names:  names,
		Labels: labels,
	}
}

// Len returns the number of assigned records.
func (a ClusterAssignment) Len() int {
	return len(a.Labels)
}

// Map returns the assignment as a flat name to label table.
func (a ClusterAssignment) Map() map[string]int {
	mm := make(map[string]int, len(a.Names))
	for i, name := range a.Names {
		mm[name] = a.Labels[i]
	}
	return mm
}

// Clusters returns the distinct non-noise cluster ids in ascending order.
func (a ClusterAssignment) Clusters() []int {
	seen := make(map[int]struct{})
	for _, l := range a.Labels {
		if l == Noise {
			continue
		}
		seen[l] = struct{}{}
	}
	cc := make([]int, 0, len(seen))
	for c := range seen {
		cc = append(cc, c)
	}
	sort.Ints(cc)
	return cc
}

// Sizes returns the member count per cluster id, noise included.
func (a ClusterAssignment) Sizes() map[int]int {
	sizes := make(map[int]int)
	for _, l := range a.Labels {
		sizes[l]++
	}
	return sizes
}

// NoiseCount returns the number of noise-labeled records.
func (a ClusterAssignment) NoiseCount() int {
	n := 0
	for _, l := range a.Labels {
		if l == Noise {
			n++
		}
	}
	return n
}
