package sqlbuild

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoFields is returned when none of the declared columns were supplied.
	ErrNoFields = errors.New("no fields to update")
	// ErrInvalidID is returned for non-positive record identifiers.
	ErrInvalidID = errors.New("record id must be positive")
	// ErrUnknownColumn is returned when the caller supplies a column outside the allow-list.
	ErrUnknownColumn = errors.New("column is not updatable")
)

// Statement is SQL text with positional placeholders plus the values bound to them.
type Statement struct {
	SQL  string
	Args []any
}

type assignment struct {
	column      string
	placeholder string
	value       any
}

// Updater builds "UPDATE <table> SET ... WHERE id = $n" statements for a fixed set of columns.
type Updater struct {
	table   string
	columns []string
	allowed map[string]struct{}
}

// NewUpdater declares the table and the columns callers may update, in SET-clause order.
func NewUpdater(table string, columns ...string) *Updater {
	allowed := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		allowed[c] = struct{}{}
	}
	return &Updater{
		table:   table,
		columns: append([]string(nil), columns...),
		allowed: allowed,
	}
}

// Build produces the statement for the supplied values. Keys absent from values are left
// untouched; the id placeholder is always the last one.
func (u *Updater) Build(id int64, values map[string]any, returning ...string) (Statement, error) {
	if id <= 0 {
		return Statement{}, ErrInvalidID
	}
	for key := range values {
		if _, ok := u.allowed[key]; !ok {
			return Statement{}, fmt.Errorf("%w: %s", ErrUnknownColumn, key)
		}
	}

	assignments := make([]assignment, 0, len(values))
	for _, column := range u.columns {
		value, ok := values[column]
		if !ok {
			continue
		}
		assignments = append(assignments, assignment{
			column:      column,
			placeholder: placeholder(len(assignments) + 1),
			value:       value,
		})
	}
	if len(assignments) == 0 {
		return Statement{}, ErrNoFields
	}

	set := make([]string, len(assignments))
	args := make([]any, 0, len(assignments)+1)
	for i, a := range assignments {
		set[i] = a.column + " = " + a.placeholder
		args = append(args, a.value)
	}
	args = append(args, id)

	var b strings.Builder
	b.WriteString("UPDATE ")
	b.WriteString(u.table)
	b.WriteString(" SET ")
	b.WriteString(strings.Join(set, ", "))
	b.WriteString(" WHERE id = ")
	b.WriteString(placeholder(len(args)))
	if len(returning) > 0 {
		b.WriteString(" RETURNING ")
		b.WriteString(strings.Join(returning, ", "))
	}

	return Statement{SQL: b.String(), Args: args}, nil
}

func placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}
