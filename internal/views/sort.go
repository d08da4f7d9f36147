package views

import (
	"fmt"
	"slices"
	"taskPlanner/internal/models/task"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortKey string

const (
	SortDate     SortKey = "date"
	SortPriority SortKey = "priority"
	SortTitle    SortKey = "title"
)

func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(s); k {
	case "":
		return SortDate, nil
	case SortDate, SortPriority, SortTitle:
		return k, nil
	default:
		return SortDate, fmt.Errorf("unknown sort key %q", s)
	}
}

// PriorityRank: high=3, medium=2, low=1; незаданный приоритет считается medium.
func PriorityRank(p task.Priority) int {
	switch p {
	case task.PriorityHigh:
		return 3
	case task.PriorityLow:
		return 1
	default:
		return 2
	}
}

// Sort возвращает отсортированную копию. Сортировка стабильная:
// равные элементы сохраняют исходный порядок.
func Sort(tasks []task.Task, key SortKey) []task.Task {
	out := slices.Clone(tasks)

	switch key {
	case SortPriority:
		slices.SortStableFunc(out, func(a, b task.Task) int {
			return PriorityRank(b.Priority) - PriorityRank(a.Priority)
		})
	case SortTitle:
		col := collate.New(language.Und)
		slices.SortStableFunc(out, func(a, b task.Task) int {
			return col.CompareString(a.Title, b.Title)
		})
	default:
		slices.SortStableFunc(out, compareDue)
	}
	return out
}

// compareDue: задачи со сроком раньше задач без срока
func compareDue(a, b task.Task) int {
	da, okA := a.Due()
	db, okB := b.Due()
	switch {
	case okA && okB:
		return da.Compare(db)
	case okA:
		return -1
	case okB:
		return 1
	}
	return 0
}
