package ledger

// Wishlist is a ledger changed only through Toggle.
type Wishlist struct {
	Ledger
}

// NewWishlist returns an empty wishlist.
func NewWishlist() *Wishlist {
	return &Wishlist{}
}
