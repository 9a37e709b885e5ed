package huffman

// buildInPlace implements the in-place canonical construction of spec
// §4.2. freq must hold n == len(freq) non-negative weights in
// non-descending order; it is overwritten (first with parent indices,
// then with depths) as scratch space, exactly as spec §4.2/§9
// describes: one mutable array, two cursors, one right-to-left pass.
//
// It returns internal_nodes_count. The trivial case (n <= d) is handled
// by the caller, which also reverses values; buildInPlace never touches
// the values slice.
func buildInPlace(degree Degree, freq []uint32) []uint32 {
	n := uint32(len(freq))
	d := degree.AsU32()

	r := d - 1 // reduction per merge
	// M = ceil((n-1)/r), computed as the Rust source does to avoid
	// mixing signed and unsigned arithmetic around the "-1".
	m := (n + r - 2) / r

	// c1: branching factor of the very first internal node, chosen so
	// that every subsequent merge consumes exactly d children.
	c := (n - 1) % r
	if c == 0 {
		c = d
	} else {
		c++
	}

	internalCur := uint32(0) // next unmerged internal-node slot
	leafCur := uint32(0)     // next unmerged leaf

	for next := uint32(0); next < m; next++ {
		// First child of this merge: the "internalCur < next" guard is
		// unnecessary here. For next >= 1 the invariant internalCur < next
		// holds (an internal node can only be consumed once a prior merge
		// has produced it), so freq[internalCur] never refers to the slot
		// about to be overwritten by this merge; at next == 0 both cursors
		// are 0, the strict comparison is false and the leaf is taken.
		if leafCur >= n || freq[internalCur] < freq[leafCur] {
			freq[next] = freq[internalCur]
			freq[internalCur] = next
			internalCur++
		} else {
			freq[next] = freq[leafCur]
			leafCur++
		}

		// Remaining c-1 children.
		for i := uint32(1); i < c; i++ {
			if leafCur >= n || (internalCur < next && freq[internalCur] < freq[leafCur]) {
				freq[next] += freq[internalCur]
				freq[internalCur] = next
				internalCur++
			} else {
				freq[next] += freq[leafCur]
				leafCur++
			}
		}

		c = d
	}

	// Right-to-left depth propagation. freq[i] currently holds a parent
	// index for every merged node except the root at m-1.
	maxDepth := uint32(0)
	freq[m-1] = 0
	for next := int64(m) - 2; next >= 0; next-- {
		freq[next] = freq[freq[next]] + 1
		if freq[next] > maxDepth {
			maxDepth = freq[next]
		}
	}

	internalNodesCount := make([]uint32, maxDepth+1)
	for i := uint32(0); i < m-1; i++ {
		internalNodesCount[freq[i]-1]++ // root (at m-1) is excluded
	}
	return internalNodesCount
}
