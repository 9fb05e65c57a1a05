package backend

import "fmt"

// ComputeTotalPages returns ceil(count/pageSize), or 0 when either is non-positive.
func ComputeTotalPages(count, pageSize int) int {
	if count <= 0 || pageSize <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}

// ComputeActualPage maps a requested newest-first page onto the physical
// oldest-first page holding its newest items. It never returns less than 1.
func ComputeActualPage(totalPages, requested int) int {
	return max(1, totalPages-requested+1)
}

// Window describes which physical pages back one requested page and how to
// cut the requested items out of them.
type Window struct {
	Count      int
	PageSize   int
	Requested  int
	TotalPages int
	Descending bool

	// Pages are the physical pages to fetch, ascending.
	Pages []int
	// Lo and Hi bound the requested items as offsets into the concatenated
	// Pages, before reversal.
	Lo, Hi int
}

// PlanWindow computes the fetch plan for a requested page over count items
// stored oldest first. An empty plan (no Pages) means nothing to fetch.
//
// Newest-first page p covers ascending offsets [count-p*size, count-(p-1)*size).
// When count is not a multiple of size that range straddles two physical
// pages; the later one is always ComputeActualPage.
func PlanWindow(count, requested, pageSize int, descending bool) Window {
	w := Window{
		Count:      count,
		PageSize:   pageSize,
		Requested:  requested,
		TotalPages: ComputeTotalPages(count, pageSize),
		Descending: descending,
	}
	if w.TotalPages == 0 || requested < 1 || requested > w.TotalPages {
		return w
	}

	if !descending {
		w.Pages = []int{requested}
		w.Lo, w.Hi = 0, pageSize
		return w
	}

	hi := count - (requested-1)*pageSize
	lo := max(0, count-requested*pageSize)
	first := lo/pageSize + 1
	last := ComputeActualPage(w.TotalPages, requested)
	for p := first; p <= last; p++ {
		w.Pages = append(w.Pages, p)
	}
	base := (first - 1) * pageSize
	w.Lo, w.Hi = lo-base, hi-base
	return w
}

// Empty reports whether the window selects no items.
func (w Window) Empty() bool { return len(w.Pages) == 0 }

// Cut selects the window's items from the concatenated physical pages and,
// for descending windows, reverses them. Short input is tolerated.
func Cut[T any](w Window, items []T) []T {
	lo := min(w.Lo, len(items))
	hi := min(w.Hi, len(items))
	out := make([]T, hi-lo)
	copy(out, items[lo:hi])
	if w.Descending {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

// Next returns the "page=N" link for the page after requested, or "".
func Next(requested, totalPages int) string {
	if requested < totalPages {
		return fmt.Sprintf("page=%d", requested+1)
	}
	return ""
}

// Previous returns the "page=N" link for the page before requested, or "".
func Previous(requested int) string {
	if requested > 1 {
		return fmt.Sprintf("page=%d", requested-1)
	}
	return ""
}
