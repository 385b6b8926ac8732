package messages

import "github.com/kalambet/deskhub/internal/collection"

// Filter narrows an inbox listing. Zero fields match everything.
type Filter struct {
	Query    string
	Category Category
	Status   Status
}

// Apply returns the messages matching every set field. The query is matched
// against title and content.
func (f Filter) Apply(items []Message) []Message {
	var preds []collection.Predicate[Message]
	if f.Query != "" {
		preds = append(preds, func(m Message) bool {
			return collection.MatchText(f.Query, m.Title, m.Content)
		})
	}
	if f.Category != "" {
		preds = append(preds, func(m Message) bool { return m.Category == f.Category })
	}
	if f.Status != "" {
		preds = append(preds, func(m Message) bool { return m.Status == f.Status })
	}
	return collection.Where(items, preds...)
}

// Stats are the inbox's derived counts.
type Stats struct {
	Total      int
	Unread     int
	Starred    int
	Archived   int
	ByCategory map[Category]int
}

// ComputeStats derives Stats from items.
func ComputeStats(items []Message) Stats {
	byStatus := collection.CountBy(items, func(m Message) Status { return m.Status })
	byCategory := collection.CountBy(items, func(m Message) Category { return m.Category })
	for _, c := range Categories {
		if _, ok := byCategory[c]; !ok {
			byCategory[c] = 0
		}
	}
	return Stats{
		Total:      len(items),
		Unread:     byStatus[Unread],
		Starred:    byStatus[Starred],
		Archived:   byStatus[Archived],
		ByCategory: byCategory,
	}
}
