package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// orderClause builds a whitelisted ORDER BY expression qualified by table.
// The id tiebreaker keeps pagination stable.
func orderClause(table, orderBy, orderDir string, allowed map[string]bool, defaultField string) string {
	field := ValidateSortField(orderBy, allowed, defaultField)
	dir := ValidateSortOrder(orderDir)
	return table + "." + field + " " + dir + ", " + table + ".id " + dir
}

// FeeSortFields contains allowed sort fields for fees
var FeeSortFields = map[string]bool{
	"issued_at":  true,
	"period":     true,
	"amount":     true,
	"status":     true,
	"due_date":   true,
	"created_at": true,
}

// UnitSortFields contains allowed sort fields for units
var UnitSortFields = map[string]bool{
	"code":       true,
	"tower":      true,
	"number":     true,
	"created_at": true,
}

// ExpenseTypeSortFields contains allowed sort fields for expense types
var ExpenseTypeSortFields = map[string]bool{
	"name":           true,
	"default_amount": true,
	"created_at":     true,
}
