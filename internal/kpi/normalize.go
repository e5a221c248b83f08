package kpi

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/metricmind/internal/types"
)

var validate = validator.New()

// formulaFunctions are identifiers allowed in formulas without being columns:
// aggregate names and common expression syntax the model tends to emit.
var formulaFunctions = map[string]bool{
	"sum": true, "avg": true, "mean": true, "count": true, "min": true,
	"max": true, "total": true, "abs": true, "round": true, "len": true,
	"df": true, "nunique": true, "unique": true,
}

var (
	quotedNameRe = regexp.MustCompile(`'([^']*)'|"([^"]*)"`)
	identifierRe = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)
)

// Normalize filters raw model-produced definitions down to the usable set:
// trimmed unique non-empty names, a recognized display format, and formulas
// that reference only known columns. A nil column list (schema unparseable)
// skips the formula check.
func Normalize(defs []types.KPIDefinition, columns []string) []types.KPIDefinition {
	var known map[string]bool
	if columns != nil {
		known = make(map[string]bool, len(columns))
		for _, c := range columns {
			known[strings.ToLower(c)] = true
		}
	}

	seen := make(map[string]bool, len(defs))
	out := make([]types.KPIDefinition, 0, len(defs))
	for _, def := range defs {
		def.Name = strings.TrimSpace(def.Name)
		def.DisplayFormat = normalizeFormat(def.DisplayFormat)

		if err := validate.Struct(def); err != nil {
			slog.Warn("dropping invalid KPI definition", "name", def.Name, "error", err)
			continue
		}

		lower := strings.ToLower(def.Name)
		if seen[lower] {
			slog.Warn("dropping duplicate KPI definition", "name", def.Name)
			continue
		}

		if known != nil && !formulaReferencesKnown(def.Formula, known) {
			slog.Warn("dropping KPI definition referencing unknown columns",
				"name", def.Name, "formula", def.Formula)
			continue
		}

		seen[lower] = true
		out = append(out, def)
	}
	return out
}

func normalizeFormat(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case types.FormatCurrency:
		return types.FormatCurrency
	case types.FormatPercent:
		return types.FormatPercent
	case types.FormatText:
		return types.FormatText
	default:
		return types.FormatNumber
	}
}

// formulaReferencesKnown reports whether every name the formula references is
// a known column. Quoted names must be columns; bare identifiers may also be
// recognized aggregate functions.
func formulaReferencesKnown(formula string, known map[string]bool) bool {
	if strings.TrimSpace(formula) == "" {
		return true
	}

	rest := formula
	for _, match := range quotedNameRe.FindAllStringSubmatch(formula, -1) {
		name := match[1]
		if name == "" {
			name = match[2]
		}
		if !known[strings.ToLower(name)] {
			return false
		}
	}
	rest = quotedNameRe.ReplaceAllString(rest, " ")

	for _, ident := range identifierRe.FindAllString(rest, -1) {
		lower := strings.ToLower(ident)
		if !known[lower] && !formulaFunctions[lower] {
			return false
		}
	}
	return true
}
