package mapview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIconFor(t *testing.T) {
	hygien := IconFor("hygien")
	assert.Equal(t, toiletIconURL, hygien.ImageURL)
	assert.Equal(t, "marker-hygien", hygien.ClassName)

	mat := IconFor("mat")
	assert.Equal(t, defaultIconURL, mat.ImageURL)
	assert.Equal(t, "marker-mat", mat.ClassName)

	blank := IconFor("")
	assert.Equal(t, defaultIconURL, blank.ImageURL)
	assert.Empty(t, blank.ClassName)
}
