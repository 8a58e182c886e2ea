package httpserver

// Ellipsis marks a gap in a pagination range.
const Ellipsis = 0

// getPaginationRange returns the page links to show: first, last, the current page and its
// neighbours. A single skipped page is shown instead of an ellipsis.
func getPaginationRange(current, total int) []int {
	if total <= 1 {
		return []int{1}
	}
	pages := []int{1}
	for i := current - 1; i <= current+1; i++ {
		if i > 1 && i < total {
			pages = append(pages, i)
		}
	}
	pages = append(pages, total)

	out := make([]int, 0, len(pages)+2)
	last := 0
	for _, p := range pages {
		if last > 0 {
			switch p - last {
			case 1:
			case 2:
				out = append(out, last+1)
			default:
				out = append(out, Ellipsis)
			}
		}
		out = append(out, p)
		last = p
	}
	return out
}

type pager struct {
	Page  int
	Pages int
	Range []int
	// Base is the listing URL with every query parameter except page.
	Base string
}

func newPager(page, pages int, base string) pager {
	return pager{Page: page, Pages: pages, Range: getPaginationRange(page, pages), Base: base}
}
