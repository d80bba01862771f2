package persons

import (
	"slices"

	"github.com/prior-it/crud/dto"
)

type Sorter struct{}

func NewSorter() *Sorter {
	return &Sorter{}
}

// GetSortedPersons returns a stably sorted copy of the list. The list is returned as-is if the field is empty or
// cannot be sorted on.
func (Sorter) GetSortedPersons(
	list []dto.PersonResponse,
	field Field,
	order SortOrder,
) []dto.PersonResponse {
	compare, ok := comparators[field]
	if !ok {
		return list
	}
	sorted := slices.Clone(list)
	slices.SortStableFunc(sorted, func(a, b dto.PersonResponse) int {
		if order == SortDescending {
			return compare(&b, &a)
		}
		return compare(&a, &b)
	})
	return sorted
}
