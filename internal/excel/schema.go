package excel

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// DayColumns holds the four header names found for one day index.
// An empty field means that column kind was not present in the sheet.
type DayColumns struct {
	ProcurementQty   string
	ProcurementPrice string
	SalesQty         string
	SalesPrice       string
}

// Schema is the result of analyzing a header row for the repeating
// day-column pattern.
type Schema struct {
	Days   map[int]DayColumns
	MaxDay int
	Errors []string
}

var (
	procurementQtyPattern   = regexp.MustCompile(`(?i)^procurement qty \(day (\d+)\)$`)
	procurementPricePattern = regexp.MustCompile(`(?i)^procurement price \(day (\d+)\)$`)
	salesQtyPattern         = regexp.MustCompile(`(?i)^sales qty \(day (\d+)\)$`)
	salesPricePattern       = regexp.MustCompile(`(?i)^sales price \(day (\d+)\)$`)
)

// AnalyzeColumns scans header names for the four day-column templates and
// validates that every day from 1 to the largest discovered index carries
// all four kinds. Headers that match no template are ignored.
func AnalyzeColumns(headers []string) Schema {
	schema := Schema{Days: make(map[int]DayColumns)}

	for _, header := range headers {
		name := strings.TrimSpace(header)
		if name == "" {
			continue
		}
		for _, candidate := range []struct {
			pattern *regexp.Regexp
			assign  func(*DayColumns)
		}{
			{procurementQtyPattern, func(c *DayColumns) { c.ProcurementQty = name }},
			{procurementPricePattern, func(c *DayColumns) { c.ProcurementPrice = name }},
			{salesQtyPattern, func(c *DayColumns) { c.SalesQty = name }},
			{salesPricePattern, func(c *DayColumns) { c.SalesPrice = name }},
		} {
			match := candidate.pattern.FindStringSubmatch(name)
			if match == nil {
				continue
			}
			day, err := strconv.Atoi(match[1])
			if err != nil || day < 1 {
				continue
			}
			cols := schema.Days[day]
			candidate.assign(&cols)
			schema.Days[day] = cols
			if day > schema.MaxDay {
				schema.MaxDay = day
			}
		}
	}

	for day := 1; day <= schema.MaxDay; day++ {
		cols, ok := schema.Days[day]
		if !ok {
			schema.Errors = append(schema.Errors, fmt.Sprintf("Missing all columns for Day %d", day))
			continue
		}

		var missing []string
		if cols.ProcurementQty == "" {
			missing = append(missing, "procurement qty")
		}
		if cols.ProcurementPrice == "" {
			missing = append(missing, "procurement price")
		}
		if cols.SalesQty == "" {
			missing = append(missing, "sales qty")
		}
		if cols.SalesPrice == "" {
			missing = append(missing, "sales price")
		}
		if len(missing) > 0 {
			schema.Errors = append(schema.Errors, fmt.Sprintf("Day %d is missing columns: %s", day, strings.Join(missing, ", ")))
		}
	}

	return schema
}

// SortedDays returns the discovered day indexes in ascending order.
func (s Schema) SortedDays() []int {
	days := make([]int, 0, len(s.Days))
	for day := range s.Days {
		days = append(days, day)
	}
	sort.Ints(days)
	return days
}
