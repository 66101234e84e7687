// Package genre holds the fixed tag taxonomy for relayed audio.
package genre

import "strings"

// DefaultLabels is the built-in catalog, in presentation order.
var DefaultLabels = []string{
	"Chill",
	"Latin",
	"Dance",
	"HipHop",
	"HIGH_TEMPO",
	"FA_VINTAGE",
	"EN_VINTAGE",
	"Birthday",
	"AfterParty",
	"Khaltoor",
	"Arabic",
	"Turki",
	"Pop_Chosnale",
	"Indian",
}

// Catalog is an ordered, immutable set of genre labels.
type Catalog struct {
	labels []string
	index  map[string]struct{}
}

// NewCatalog builds a catalog from the given labels, preserving order and
// dropping empties and duplicates. A nil or empty input yields the defaults.
func NewCatalog(labels []string) *Catalog {
	if len(labels) == 0 {
		labels = DefaultLabels
	}
	c := &Catalog{
		labels: make([]string, 0, len(labels)),
		index:  make(map[string]struct{}, len(labels)),
	}
	for _, l := range labels {
		l = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(l), "#"))
		if l == "" {
			continue
		}
		if _, dup := c.index[l]; dup {
			continue
		}
		c.labels = append(c.labels, l)
		c.index[l] = struct{}{}
	}
	return c
}

// Labels returns the catalog labels in presentation order.
func (c *Catalog) Labels() []string {
	out := make([]string, len(c.labels))
	copy(out, c.labels)
	return out
}

// Contains reports whether the label is part of the catalog.
func (c *Catalog) Contains(label string) bool {
	_, ok := c.index[label]
	return ok
}

// Len returns the number of labels.
func (c *Catalog) Len() int { return len(c.labels) }

// Caption renders the destination caption for a tagged item.
func Caption(label, senderName string) string {
	return "#" + label + "\nSender: " + senderName
}
