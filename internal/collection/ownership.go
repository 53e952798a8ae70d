package collection

import "github.com/ramonehamilton/MTG-Collection/internal/models"

// Holding is the ownership record of one card across collections.
type Holding struct {
	Quantity      int      `json:"quantity"`
	FoilQuantity  int      `json:"foil_quantity"`
	CollectionIDs []string `json:"collection_ids"`
}

// Index maps card id to its holding. It is rebuilt from scratch whenever a
// collection changes; it is never updated in place.
type Index struct {
	holdings map[string]*Holding
}

// BuildIndex derives the ownership index from collections.
func BuildIndex(collections []models.Collection) *Index {
	idx := &Index{holdings: make(map[string]*Holding)}
	for _, c := range collections {
		for _, e := range c.Cards {
			if e.Quantity <= 0 {
				continue
			}
			h, ok := idx.holdings[e.Card.ID]
			if !ok {
				h = &Holding{}
				idx.holdings[e.Card.ID] = h
			}
			if e.Foil {
				h.FoilQuantity += e.Quantity
			} else {
				h.Quantity += e.Quantity
			}
			if !contains(h.CollectionIDs, c.ID) {
				h.CollectionIDs = append(h.CollectionIDs, c.ID)
			}
		}
	}
	return idx
}

// Quantities reports non-foil and foil copies owned of cardID.
func (idx *Index) Quantities(cardID string) (nonFoil, foil int) {
	if idx == nil {
		return 0, 0
	}
	if h, ok := idx.holdings[cardID]; ok {
		return h.Quantity, h.FoilQuantity
	}
	return 0, 0
}

// Holding returns a copy of the holding for cardID.
func (idx *Index) Holding(cardID string) (Holding, bool) {
	if idx == nil {
		return Holding{}, false
	}
	h, ok := idx.holdings[cardID]
	if !ok {
		return Holding{}, false
	}
	out := *h
	out.CollectionIDs = append([]string(nil), h.CollectionIDs...)
	return out, true
}

// Len returns the number of distinct cards owned.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.holdings)
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
