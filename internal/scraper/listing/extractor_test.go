package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractUsesFirstNonEmptyFallback(t *testing.T) {
	node := &fakeNode{
		text: map[string]string{
			".name":  "Perceuse 20V",
			".price": "59,99 $",
		},
		attrs: map[string]string{
			"a|href": "https://www.example.ca/p/123",
		},
	}

	raw := Extract(node, testProfile.Fields)

	// .title is absent, so the .name fallback supplies the title.
	assert.Equal(t, "Perceuse 20V", raw.Title)
	assert.Equal(t, "https://www.example.ca/p/123", raw.Link)
	assert.Equal(t, "59,99 $", raw.SaleText)
	assert.Empty(t, raw.RegularText)
	assert.Empty(t, raw.SKU)
}

func TestExtractNeverFailsOnEmptyNode(t *testing.T) {
	raw := Extract(&fakeNode{}, testProfile.Fields)
	assert.True(t, raw.Empty())
}

func TestExtractCollectsBadges(t *testing.T) {
	node := &fakeNode{
		text:  map[string]string{".title": "Tente 4 places"},
		texts: map[string][]string{".badge": {"Liquidation", " En ligne seulement "}},
	}
	raw := Extract(node, testProfile.Fields)
	assert.Equal(t, []string{"Liquidation", "En ligne seulement"}, raw.Badges)
}

func TestExtractCleansWhitespace(t *testing.T) {
	node := &fakeNode{
		text: map[string]string{".title": "  Ensemble\n\tde clés  "},
	}
	raw := Extract(node, testProfile.Fields)
	assert.Equal(t, "Ensemble de clés", raw.Title)
}
