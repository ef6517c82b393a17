package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "table-basse-en-chene", Slugify("Table basse en chêne"))
	assert.Equal(t, "cafe-moulu-250g", Slugify("  Café moulu (250g)  "))
	assert.Equal(t, "promo-50", Slugify("Promo -50% !!!"))
	assert.Equal(t, "", Slugify("???"))
}
