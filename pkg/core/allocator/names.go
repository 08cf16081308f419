package allocator

// MaxNameAttempts is the number of generator calls made before a duplicate name is accepted
const MaxNameAttempts = 50

// NameGenerator returns a random display name for a working group
type NameGenerator func() string

// NameAllocator hands out group names that are unique within one allocation run.
//
// Uniqueness is best effort: when every attempt collides the last generated name is
// accepted anyway and reported as not unique. Create one per run; the used-name set
// must never be shared between runs.
type NameAllocator struct {
	generate NameGenerator
	used     map[string]bool
}

// NewNameAllocator creates a NameAllocator with an empty used-name set
func NewNameAllocator(generate NameGenerator) *NameAllocator {
	return &NameAllocator{
		generate: generate,
		used:     make(map[string]bool),
	}
}

// Next returns the next group name and whether it is unique in this run
func (n *NameAllocator) Next() (string, bool) {
	var name string
	for attempt := 0; attempt < MaxNameAttempts; attempt++ {
		name = n.generate()
		if !n.used[name] {
			n.used[name] = true
			return name, true
		}
	}

	// All attempts collided - accept the duplicate
	return name, false
}
