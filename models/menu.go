package models

// MenuItem is the snapshot the menu collaborator hands to the order entry
// surface. Price and availability are read at add-to-cart time; once an item
// is on an order the order keeps its own copy.
type MenuItem struct {
	ID        uint    `json:"id"`
	Category  string  `json:"category"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Available bool    `json:"available"`
}
