package allocator

// PartitionWeeks splits the configured weeks across count groups round-robin.
//
// The week at position i goes to group i % count, so groups interleave across the
// calendar even when len(weeks) is not a multiple of count. Every group gets a
// non-nil slice, empty when there are no weeks. Returns nil if count < 1.
func PartitionWeeks(weeks []int, count int) [][]int {
	if count < 1 {
		return nil
	}

	partitions := make([][]int, count)
	for i := range partitions {
		partitions[i] = make([]int, 0, len(weeks)/count+1)
	}

	for index, week := range weeks {
		partitions[index%count] = append(partitions[index%count], week)
	}

	return partitions
}
