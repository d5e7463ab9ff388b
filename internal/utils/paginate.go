package utils

// Paginate returns page `page` (1-based) of size pageSize. Pages past the end
// are empty. Callers validate page >= 1 and pageSize > 0.
func Paginate[T any](items []T, page, pageSize int) []T {
	if page < 1 || pageSize <= 0 {
		return []T{}
	}
	start := (page - 1) * pageSize
	if start >= len(items) || start < 0 {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) || end < start {
		end = len(items)
	}
	return items[start:end]
}
