package dashboard

import (
	"sort"
	"time"

	"finpulse/internal/domain/transaction"
)

// Bucket is one calendar month of transactions.
type Bucket struct {
	Label        string                    `json:"label"`
	Transactions []transaction.Transaction `json:"transactions"`
}

// MonthKey labels the calendar month of t in loc, e.g. "November 2024".
func MonthKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("January 2006")
}

// GroupByMonth buckets transactions by MonthKey. Buckets are ordered by label
// descending; transactions inside a bucket by date descending, ties keeping
// their input order.
func GroupByMonth(txs []transaction.Transaction, loc *time.Location) []Bucket {
	index := make(map[string]int)
	var buckets []Bucket
	for _, tx := range txs {
		key := MonthKey(tx.Date, loc)
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, Bucket{Label: key})
		}
		buckets[i].Transactions = append(buckets[i].Transactions, tx)
	}

	for _, b := range buckets {
		sort.SliceStable(b.Transactions, func(i, j int) bool {
			return b.Transactions[i].Date.After(b.Transactions[j].Date)
		})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Label > buckets[j].Label
	})
	return buckets
}

// Flatten concatenates buckets in order.
func Flatten(buckets []Bucket) []transaction.Transaction {
	var out []transaction.Transaction
	for _, b := range buckets {
		out = append(out, b.Transactions...)
	}
	return out
}

func sameMonth(t, ref time.Time, loc *time.Location) bool {
	lt, lr := t.In(loc), ref.In(loc)
	return lt.Year() == lr.Year() && lt.Month() == lr.Month()
}
