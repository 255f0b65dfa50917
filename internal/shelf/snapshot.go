package shelf

import (
	"encoding/json"
	"strconv"

	"github.com/velvetlabs/velvet/internal/catalog"
)

// flexID tolerates product ids that were stringified by an earlier
// writer of the snapshot. The text store round-trips everything as
// JSON, so "7" and 7 must restore to the same product.
type flexID int

func (f *flexID) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexID(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*f = flexID(n)
	return nil
}

// snapshotProduct mirrors catalog.Product with the tolerant id decode.
type snapshotProduct struct {
	ID          flexID `json:"id"`
	Name        string `json:"name"`
	Brand       string `json:"brand"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Keywords    string `json:"keywords,omitempty"`
}

func (sp snapshotProduct) product() catalog.Product {
	return catalog.Product{
		ID:          int(sp.ID),
		Name:        sp.Name,
		Brand:       sp.Brand,
		Category:    sp.Category,
		Description: sp.Description,
		Image:       sp.Image,
		Keywords:    sp.Keywords,
	}
}
