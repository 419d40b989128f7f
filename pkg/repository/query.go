package repository

import (
	"fmt"
	"strings"

	"github.com/tendant/simple-access-slim/pkg/domain"
)

// whereBuilder accumulates AND-ed predicates with numbered placeholders.
type whereBuilder struct {
	clauses []string
	args    []any
}

// add appends a predicate. Each "?" in clause is replaced by the next
// placeholder and consumes one arg.
func (w *whereBuilder) add(clause string, args ...any) {
	for _, arg := range args {
		w.args = append(w.args, arg)
		clause = strings.Replace(clause, "?", fmt.Sprintf("$%d", len(w.args)), 1)
	}
	w.clauses = append(w.clauses, clause)
}

// scope adds the soft-delete predicate for the given scope.
func (w *whereBuilder) scope(scope domain.DeletedScope) {
	switch scope {
	case domain.ScopeAll:
	case domain.ScopeDeleted:
		w.add("deleted_at IS NOT NULL")
	default:
		w.add("deleted_at IS NULL")
	}
}

// search adds a case-insensitive substring match across columns.
func (w *whereBuilder) search(term string, columns ...string) {
	term = strings.TrimSpace(term)
	if term == "" {
		return
	}
	pattern := "%" + escapeLike(term) + "%"
	w.args = append(w.args, pattern)
	placeholder := fmt.Sprintf("$%d", len(w.args))

	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = col + " ILIKE " + placeholder
	}
	w.clauses = append(w.clauses, "("+strings.Join(parts, " OR ")+")")
}

func (w *whereBuilder) sql() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// page appends ORDER BY / LIMIT / OFFSET. Unknown sort keys fall back to
// created_at; the column list is a whitelist so nothing user supplied is
// interpolated.
func (w *whereBuilder) page(page domain.PageRequest, columns map[string]string) string {
	column, ok := columns[page.Sort]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if page.Desc {
		direction = "DESC"
	}

	w.args = append(w.args, page.Limit, page.Offset())
	return fmt.Sprintf(" ORDER BY %s %s, id %s LIMIT $%d OFFSET $%d",
		column, direction, direction, len(w.args)-1, len(w.args))
}

// escapeLike escapes LIKE wildcards so the term matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// nullCheck renders "col IS NOT NULL" or "col IS NULL".
func nullCheck(column string, present bool) string {
	if present {
		return column + " IS NOT NULL"
	}
	return column + " IS NULL"
}
