// Package band maps page counts to size classes and summary lengths.
//
// Both decisions read the same table so the category stored on a document
// always agrees with the number of sentences its summary was allowed.
package band

import "math"

// Category is the size class of a document
type Category string

const (
	Short  Category = "short"
	Medium Category = "medium"
	Long   Category = "long"
)

// Band is one row of the size table. A document belongs to the first band
// whose MaxPages is greater than or equal to its page count.
type Band struct {
	MaxPages  int
	Category  Category
	Sentences int
}

var table = []Band{
	{MaxPages: 10, Category: Short, Sentences: 3},
	{MaxPages: 30, Category: Medium, Sentences: 5},
	{MaxPages: math.MaxInt, Category: Long, Sentences: 7},
}

// For returns the band for the given page count. Negative counts are
// treated as zero.
func For(pages int) Band {
	if pages < 0 {
		pages = 0
	}
	for _, b := range table {
		if pages <= b.MaxPages {
			return b
		}
	}
	return table[len(table)-1]
}

// Categorize returns the size class for a page count
func Categorize(pages int) Category {
	return For(pages).Category
}

// SummaryLength returns the target number of summary sentences for a page count
func SummaryLength(pages int) int {
	return For(pages).Sentences
}

// Table returns a copy of the band table
func Table() []Band {
	out := make([]Band, len(table))
	copy(out, table)
	return out
}
