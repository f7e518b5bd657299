package pagination

// CalculateOffset calculates the slice offset based on page number and limit.
// Page numbers are 1-based, so page 1 has offset 0.
//
// Formula: offset = (page - 1) * limit
//
// Examples:
//   - Page 1, Limit 20 -> Offset 0
//   - Page 2, Limit 20 -> Offset 20
//   - Page 3, Limit 10 -> Offset 20
func CalculateOffset(page, limit int) int {
	return (page - 1) * limit
}

// Window returns the [start, end) bounds of one page over a collection of
// total items. A page past the end yields an empty window at total.
func Window(total, page, limit int) (start, end int) {
	if limit < 1 || page < 1 || page-1 > total/limit {
		return total, total
	}
	start = CalculateOffset(page, limit)
	if start > total {
		start = total
	}
	end = start + limit
	if end > total {
		end = total
	}
	return start, end
}
