package genre

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCatalogDefaults(t *testing.T) {
	c := NewCatalog(nil)
	assert.Equal(t, len(DefaultLabels), c.Len())
	assert.Equal(t, "Chill", c.Labels()[0])
	assert.True(t, c.Contains("Latin"))
	assert.False(t, c.Contains("Jazz"))
}

func TestNewCatalogNormalizes(t *testing.T) {
	c := NewCatalog([]string{" #Rock ", "Rock", "", "Pop"})
	assert.Equal(t, []string{"Rock", "Pop"}, c.Labels())
}

func TestCatalogOrderStable(t *testing.T) {
	labels := []string{"B", "A", "C"}
	c := NewCatalog(labels)
	assert.Equal(t, labels, c.Labels())
}

func TestCaption(t *testing.T) {
	assert.Equal(t, "#Latin\nSender: Jane Doe", Caption("Latin", "Jane Doe"))
}
