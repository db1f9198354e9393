package dto

// Page is an optional limit/offset window over a catalog listing.
// A zero Limit means "everything".
type Page struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// IsZero reports whether no pagination was requested.
func (p Page) IsZero() bool {
	return p.Limit == 0 && p.Offset == 0
}

// MaxPageLimit caps the page size a client can ask for.
const MaxPageLimit = 500
