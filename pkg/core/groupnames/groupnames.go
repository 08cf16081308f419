// Package groupnames generates playful Danish display names for working groups.
package groupnames

import "math/rand/v2"

var adjectives = []string{
	"Smidig", "Modig", "Klog", "Dristig", "Episk", "Vild", "Gigantisk", "Heroisk",
	"Utrolig", "Swingende", "Skarp", "Legendarisk", "Mægtig", "Kvikk", "Optimistisk",
	"Magtfuld", "Hurtig", "Strålende", "Rask", "Titanisk", "Ultimativ", "Livlig",
	"Vittig", "Gæstfri", "Ungdommelig", "Ildfuld", "Fantastisk", "Genial", "Kreativ",
	"Dynamisk", "Energisk", "Fabelagtig", "Harmonisk", "Innovativ", "Glædelig",
	"Dødbringende", "Lysende", "Magisk", "Ædel", "Fremragende", "Fænomenal",
}

var nouns = []string{
	"Alligatorer", "Grævlinge", "Geparder", "Delfiner", "Ørne", "Falke", "Gorillaer",
	"Høge", "Leguaner", "Jaguarer", "Kænguruer", "Løver", "Aber", "Narhvaler",
	"Odder", "Pantere", "Vagtler", "Ravne", "Hajer", "Tigre", "Enhjørninger",
	"Hugorme", "Ulve", "Jordegern", "Yakker", "Zebraer", "Es", "Ildfugle", "Mestre",
	"Drager", "Eliter", "Gladiatorer", "Jægere", "Innovatører", "Juggernauter",
	"Riddere", "Legender", "Enspændere", "Ninjaer", "Lovløse", "Pirater", "Kvasarer",
}

// Generator picks "<adjective> <noun>" names from a random source
type Generator struct {
	rng *rand.Rand
}

// New creates a Generator drawing from rng. Pass the allocation's seeded source
// so names are reproducible along with the groups.
func New(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// Name returns a random group name
func (g *Generator) Name() string {
	adjective := adjectives[g.rng.IntN(len(adjectives))]
	noun := nouns[g.rng.IntN(len(nouns))]
	return adjective + " " + noun
}

// Combinations returns the number of distinct names the generator can produce
func Combinations() int {
	return len(adjectives) * len(nouns)
}
