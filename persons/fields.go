// Package persons contains the services that add, query, sort, export, update and delete persons.
package persons

import (
	"cmp"
	"strconv"
	"strings"
	"time"

	"github.com/prior-it/crud/core"
	"github.com/prior-it/crud/dto"
)

// Field selects the attribute of a person that is used to search or sort.
type Field string

const (
	FieldID            Field = "Id"
	FieldName          Field = "Name"
	FieldEmail         Field = "Email"
	FieldDateOfBirth   Field = "DateOfBirth"
	FieldAge           Field = "Age"
	FieldGender        Field = "Gender"
	FieldCountry       Field = "Country"
	FieldReceiveEmails Field = "ReceiveEmails"
)

func (f Field) String() string {
	return string(f)
}

type SortOrder string

const (
	SortAscending  SortOrder = "ASC"
	SortDescending SortOrder = "DESC"
)

// ParseSortOrder is case-insensitive, anything that isn't DESC sorts ascending.
func ParseSortOrder(value string) SortOrder {
	if strings.EqualFold(value, string(SortDescending)) {
		return SortDescending
	}
	return SortAscending
}

// Returns a matcher for the search text, nil values never match.
type filterFunc func(text string) core.PersonMatcher

// Fields that can be searched. Matching is case-sensitive.
var filters = map[Field]filterFunc{
	FieldName: func(text string) core.PersonMatcher {
		return func(p *core.Person) bool { return strings.HasPrefix(p.Name, text) }
	},
	FieldEmail: func(text string) core.PersonMatcher {
		return func(p *core.Person) bool { return strings.HasPrefix(p.Email, text) }
	},
	FieldDateOfBirth: func(text string) core.PersonMatcher {
		return func(p *core.Person) bool {
			return p.DateOfBirth != nil && strings.Contains(p.DateOfBirth.Format(time.DateOnly), text)
		}
	},
	FieldGender: func(text string) core.PersonMatcher {
		return func(p *core.Person) bool { return strings.HasPrefix(p.Gender.String(), text) }
	},
	FieldCountry: func(text string) core.PersonMatcher {
		return func(p *core.Person) bool {
			return p.Country != nil && strings.HasPrefix(p.Country.Name, text)
		}
	},
}

type compareFunc func(a, b *dto.PersonResponse) int

// Fields that can be sorted on. Strings are compared case-insensitively, nil values come first.
var comparators = map[Field]compareFunc{
	FieldName: func(a, b *dto.PersonResponse) int {
		return compareFold(a.Name, b.Name)
	},
	FieldEmail: func(a, b *dto.PersonResponse) int {
		return compareFold(a.Email, b.Email)
	},
	FieldDateOfBirth: func(a, b *dto.PersonResponse) int {
		return compareNil(a.DateOfBirth, b.DateOfBirth, func(x, y *dto.Date) int {
			return x.Compare(y.Time)
		})
	},
	FieldAge: func(a, b *dto.PersonResponse) int {
		return compareNil(a.Age, b.Age, func(x, y *int) int {
			return cmp.Compare(*x, *y)
		})
	},
	FieldGender: func(a, b *dto.PersonResponse) int {
		return compareFold(a.Gender, b.Gender)
	},
	FieldCountry: func(a, b *dto.PersonResponse) int {
		return compareFold(a.Country, b.Country)
	},
	FieldReceiveEmails: func(a, b *dto.PersonResponse) int {
		return compareFold(boolString(a.ReceiveEmails), boolString(b.ReceiveEmails))
	},
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToUpper(a), strings.ToUpper(b))
}

func compareNil[T any](a, b *T, compare func(x, y *T) int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return compare(a, b)
	}
}

// boolString renders a flag as "True" or "False".
func boolString(value bool) string {
	s := strconv.FormatBool(value)
	return strings.ToUpper(s[:1]) + s[1:]
}
