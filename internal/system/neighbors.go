package system

// neighborList holds all atom pairs closer than a cutoff. The search is
// a brute-force scan over all pairs, without periodic images; this is
// enough for the small systems this implementation targets.
type neighborList struct {
	cutoff   float64
	pairs    []Pair
	byCenter [][]Pair
}

func newNeighborList(positions []Vector3D, cutoff float64) *neighborList {
	nl := &neighborList{
		cutoff:   cutoff,
		byCenter: make([][]Pair, len(positions)),
	}
	for i := range positions {
		for j := i + 1; j < len(positions); j++ {
			distance := positions[j].Sub(positions[i]).Norm()
			if distance < cutoff {
				pair := Pair{First: i, Second: j, Distance: distance}
				nl.pairs = append(nl.pairs, pair)
				nl.byCenter[i] = append(nl.byCenter[i], pair)
				nl.byCenter[j] = append(nl.byCenter[j], pair)
			}
		}
	}
	return nl
}
