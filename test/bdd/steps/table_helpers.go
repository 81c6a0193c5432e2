package steps

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cucumber/godog"
	messages "github.com/cucumber/messages/go/v21"
)

// getCellValue returns the value of columnName in row, using the first table row as the header
func getCellValue(table *godog.Table, row *messages.PickleTableRow, columnName string) string {
	if len(table.Rows) == 0 {
		return ""
	}

	for i, headerCell := range table.Rows[0].Cells {
		if headerCell.Value == columnName && i < len(row.Cells) {
			return row.Cells[i].Value
		}
	}
	return ""
}

func getFloatCell(table *godog.Table, row *messages.PickleTableRow, columnName string) (float64, error) {
	raw := getCellValue(table, row, columnName)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: invalid number %q", columnName, raw)
	}
	return v, nil
}

// splitNames splits "Sol, Alpha Centauri" into trimmed names; "" yields none
func splitNames(list string) []string {
	return splitOn(list, ",")
}

// splitRoute splits "Sol -> A -> B" into system names; "" yields none
func splitRoute(route string) []string {
	return splitOn(route, "->")
}

func splitOn(s, sep string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, sep)
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		names = append(names, strings.TrimSpace(p))
	}
	return names
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
