// Package pagination computes fixed-size page windows.
package pagination

import (
	"math"
	"strconv"
)

// DefaultPerPage is the listing page size.
const DefaultPerPage = 10

// Page describes one window over an ordered result set.
type Page struct {
	Number   int
	PerPage  int
	Total    int64
	NumPages int
}

// New builds the page for number over total items. Numbers below 1 become 1;
// numbers past the last page are kept and yield an empty window. Numbers whose
// offset would overflow an int are clamped to the last representable page.
func New(number, perPage int, total int64) Page {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if number < 1 {
		number = 1
	}
	if maxNumber := math.MaxInt/perPage + 1; number > maxNumber {
		number = maxNumber
	}
	numPages := int((total + int64(perPage) - 1) / int64(perPage))
	if numPages == 0 {
		numPages = 1
	}
	return Page{Number: number, PerPage: perPage, Total: total, NumPages: numPages}
}

// Offset is the index of the first item on the page.
func (p Page) Offset() int { return (p.Number - 1) * p.PerPage }

// Limit is the page size.
func (p Page) Limit() int { return p.PerPage }

func (p Page) HasPrevious() bool { return p.Number > 1 }

func (p Page) HasNext() bool { return p.Number < p.NumPages }

func (p Page) PreviousNumber() int { return p.Number - 1 }

func (p Page) NextNumber() int { return p.Number + 1 }

// Parse reads a ?page= value; anything that isn't a positive integer is page 1.
func Parse(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
