package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

var csvHeader = []string{"date", "description", "category", "amount", "recurring", "interval"}

// WriteCSV writes every expense, newest first, with category names resolved.
func WriteCSV(w io.Writer, src Source) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, v := range RecentExpenses(src, -1) {
		record := []string{
			v.Date.UTC().Format(dayLayout),
			v.Description,
			v.CategoryName,
			v.Amount.String(),
			strconv.FormatBool(v.IsRecurring),
			string(v.RecurringInterval),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write expense %s: %w", v.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
