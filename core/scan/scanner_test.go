package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortNameFor(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"The Knife", "Knife, The"},
		{"A Tribe Called Quest", "Tribe Called Quest, A"},
		{"An Evening With", "Evening With, An"},
		{"Theydon Bois", "Theydon Bois"}, // "The" must match as a word
		{"The ", "The "},
		{"Aphex Twin", "Aphex Twin"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, sortNameFor(c.name), "name=%q", c.name)
	}
}

func TestTrackArtistOverride(t *testing.T) {
	assert.Equal(t, "", trackArtistOverride("", "Various Artists"))
	assert.Equal(t, "", trackArtistOverride("Aphex Twin", "Aphex Twin"))
	assert.Equal(t, "AFX", trackArtistOverride("AFX", "Aphex Twin"))
}
