package feeds

import "slices"

// Page is one window of the feed
type Page struct {
	Number int    `json:"page"`
	Size   int    `json:"size"`
	Total  int    `json:"total"`
	Cards  []Card `json:"cards"`
	// More pages follow this one
	HasMore bool `json:"hasMore"`
	// The feed has no visible posts at all. Only ever set on page 1, an empty
	// later page just means pagination is over.
	Empty bool `json:"empty"`
}

// Page renders page n of the store's visible posts. Pages are 1-based;
// n below 1 is read as the first page and a size below 1 as the default.
func (r *Renderer) Page(store *Store, n int, size int) Page {
	if n < 1 {
		n = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}

	visible := slices.Collect(store.VisibleSorted())
	total := len(visible)

	// n and size come from clients and can be anywhere up to MaxInt, only
	// multiply once n is known to fall inside the feed
	pages := total / size
	if total%size != 0 {
		pages++
	}
	start := total
	if n-1 < pages {
		start = (n - 1) * size
	}
	end := start + min(size, total-start)

	cards := make([]Card, 0, end-start)
	for i, post := range visible[start:end] {
		cards = append(cards, r.Card(post, start+i))
	}

	return Page{
		Number:  n,
		Size:    size,
		Total:   total,
		Cards:   cards,
		HasMore: end < total,
		Empty:   n == 1 && len(cards) == 0,
	}
}
