package files

import "github.com/kalambet/deskhub/internal/collection"

// Filter narrows a file listing. Zero fields match everything.
type Filter struct {
	Query    string
	Category Category
}

// Apply returns the files matching every set field. The query is matched
// against the name and the text preview.
func (f Filter) Apply(items []FileItem) []FileItem {
	var preds []collection.Predicate[FileItem]
	if f.Query != "" {
		preds = append(preds, func(it FileItem) bool {
			return collection.MatchText(f.Query, it.Name, it.Preview)
		})
	}
	if f.Category != "" {
		preds = append(preds, func(it FileItem) bool { return it.Category == f.Category })
	}
	return collection.Where(items, preds...)
}

// Stats are the vault's derived counts.
type Stats struct {
	Total      int
	ByCategory map[Category]int
	TotalSize  int64
}

// ComputeStats derives Stats from items.
func ComputeStats(items []FileItem) Stats {
	byCategory := collection.CountBy(items, func(f FileItem) Category { return f.Category })
	for _, c := range Categories {
		if _, ok := byCategory[c]; !ok {
			byCategory[c] = 0
		}
	}
	return Stats{
		Total:      len(items),
		ByCategory: byCategory,
		TotalSize:  collection.SumBy(items, func(f FileItem) int64 { return f.Size }),
	}
}
