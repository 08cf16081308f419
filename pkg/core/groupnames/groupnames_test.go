package groupnames

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestName_AdjectiveAndNoun(t *testing.T) {
	g := New(rand.New(rand.NewPCG(3, 4)))

	for i := 0; i < 100; i++ {
		parts := strings.SplitN(g.Name(), " ", 2)
		require.Len(t, parts, 2)
		assert.Contains(t, adjectives, parts[0])
		assert.Contains(t, nouns, parts[1])
	}
}

func TestName_SameSourceSameNames(t *testing.T) {
	a := New(rand.New(rand.NewPCG(9, 9)))
	b := New(rand.New(rand.NewPCG(9, 9)))

	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Name(), b.Name())
	}
}

func TestWordLists_NoDuplicates(t *testing.T) {
	for _, list := range [][]string{adjectives, nouns} {
		seen := make(map[string]bool)
		for _, word := range list {
			assert.False(t, seen[word], "duplicate word %q", word)
			seen[word] = true
		}
	}
	assert.Equal(t, len(adjectives)*len(nouns), Combinations())
}
