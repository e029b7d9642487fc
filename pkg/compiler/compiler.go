// Package compiler turns operation tree nodes into compiled SQL
// statements. The executor consumes the Compiler contract; Default is a
// dialect-parameterized implementation covering the closed node set.
package compiler

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/leapstack-labs/queryflow/pkg/core"
)

// Compiler compiles an operation tree node into an executable statement.
type Compiler interface {
	Compile(node core.Node) (core.CompiledQuery, error)
}

// Default renders the built-in node kinds to SQL using the dialect's
// placeholder and quoting rules. It performs no dialect translation: the
// same clause structure is emitted for every dialect.
type Default struct {
	dialect *core.DialectConfig
}

// New creates a compiler for the given dialect. A nil dialect gets
// question-mark placeholders and double-quote identifiers.
func New(dialect *core.DialectConfig) *Default {
	if dialect == nil {
		dialect = &core.DialectConfig{}
	}
	return &Default{dialect: dialect}
}

// Compile implements Compiler.
func (c *Default) Compile(node core.Node) (core.CompiledQuery, error) {
	b := &builder{dialect: c.dialect}

	var err error
	switch n := node.(type) {
	case *core.SelectNode:
		err = b.selectStmt(n)
	case *core.InsertNode:
		err = b.insertStmt(n)
	case *core.UpdateNode:
		err = b.updateStmt(n)
	case *core.DeleteNode:
		err = b.deleteStmt(n)
	case *core.RawNode:
		b.sql.WriteString(n.SQL)
		b.args = append(b.args, n.Args...)
	default:
		err = fmt.Errorf("cannot compile node kind %q", node.Kind())
	}
	if err != nil {
		return core.CompiledQuery{}, err
	}

	return core.CompiledQuery{SQL: b.sql.String(), Args: b.args, Kind: node.Kind()}, nil
}

// builder accumulates statement text and positional arguments.
type builder struct {
	dialect *core.DialectConfig
	sql     strings.Builder
	args    []any
}

// placeholder appends v as a positional argument and returns its
// placeholder text.
func (b *builder) placeholder(v any) string {
	b.args = append(b.args, v)
	return b.dialect.FormatPlaceholder(len(b.args))
}

func (b *builder) quote(name string) string {
	if name == "*" {
		return name
	}
	return b.dialect.QuoteIdentifier(name)
}

func (b *builder) selectStmt(n *core.SelectNode) error {
	if n.From == "" {
		return fmt.Errorf("select node has no source table")
	}

	b.sql.WriteString("SELECT ")
	if len(n.Columns) == 0 {
		b.sql.WriteString("*")
	} else {
		for i, col := range n.Columns {
			if i > 0 {
				b.sql.WriteString(", ")
			}
			b.sql.WriteString(b.quote(col))
		}
	}
	b.sql.WriteString(" FROM ")
	b.sql.WriteString(b.quote(n.From))

	if err := b.whereClause(n.Where); err != nil {
		return err
	}

	if len(n.OrderBy) > 0 {
		b.sql.WriteString(" ORDER BY ")
		for i, item := range n.OrderBy {
			if i > 0 {
				b.sql.WriteString(", ")
			}
			b.sql.WriteString(b.quote(item.Column))
			if item.Desc {
				b.sql.WriteString(" DESC")
			}
		}
	}

	if n.Limit != nil {
		b.sql.WriteString(" LIMIT ")
		b.sql.WriteString(strconv.FormatInt(*n.Limit, 10))
	}
	if n.Offset != nil {
		b.sql.WriteString(" OFFSET ")
		b.sql.WriteString(strconv.FormatInt(*n.Offset, 10))
	}
	return nil
}

func (b *builder) insertStmt(n *core.InsertNode) error {
	if n.Table == "" {
		return fmt.Errorf("insert node has no target table")
	}
	if len(n.Values) == 0 {
		return fmt.Errorf("insert node has no values")
	}

	b.sql.WriteString("INSERT INTO ")
	b.sql.WriteString(b.quote(n.Table))

	if len(n.Columns) > 0 {
		b.sql.WriteString(" (")
		for i, col := range n.Columns {
			if i > 0 {
				b.sql.WriteString(", ")
			}
			b.sql.WriteString(b.quote(col))
		}
		b.sql.WriteString(")")
	}

	b.sql.WriteString(" VALUES ")
	for i, row := range n.Values {
		if len(n.Columns) > 0 && len(row) != len(n.Columns) {
			return fmt.Errorf("insert row %d has %d values, want %d", i, len(row), len(n.Columns))
		}
		if i > 0 {
			b.sql.WriteString(", ")
		}
		b.sql.WriteString("(")
		for j, v := range row {
			if j > 0 {
				b.sql.WriteString(", ")
			}
			b.sql.WriteString(b.placeholder(v))
		}
		b.sql.WriteString(")")
	}
	return nil
}

func (b *builder) updateStmt(n *core.UpdateNode) error {
	if n.Table == "" {
		return fmt.Errorf("update node has no target table")
	}
	if len(n.Set) == 0 {
		return fmt.Errorf("update node has no assignments")
	}

	b.sql.WriteString("UPDATE ")
	b.sql.WriteString(b.quote(n.Table))
	b.sql.WriteString(" SET ")
	for i, a := range n.Set {
		if i > 0 {
			b.sql.WriteString(", ")
		}
		b.sql.WriteString(b.quote(a.Column))
		b.sql.WriteString(" = ")
		b.sql.WriteString(b.placeholder(a.Value))
	}
	return b.whereClause(n.Where)
}

func (b *builder) deleteStmt(n *core.DeleteNode) error {
	if n.Table == "" {
		return fmt.Errorf("delete node has no target table")
	}
	b.sql.WriteString("DELETE FROM ")
	b.sql.WriteString(b.quote(n.Table))
	return b.whereClause(n.Where)
}

func (b *builder) whereClause(conds []core.Condition) error {
	if len(conds) == 0 {
		return nil
	}
	b.sql.WriteString(" WHERE ")
	for i, cond := range conds {
		if i > 0 {
			b.sql.WriteString(" AND ")
		}
		op := cond.Op
		if op == "" {
			op = "="
		}
		b.sql.WriteString(b.quote(cond.Column))
		b.sql.WriteString(" ")
		b.sql.WriteString(op)

		if strings.EqualFold(op, "IN") {
			if err := b.inList(cond.Value); err != nil {
				return err
			}
			continue
		}
		b.sql.WriteString(" ")
		b.sql.WriteString(b.placeholder(cond.Value))
	}
	return nil
}

// inList expands a slice value into a parenthesized placeholder list.
func (b *builder) inList(value any) error {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return fmt.Errorf("IN condition requires a slice value, got %T", value)
	}
	if rv.Len() == 0 {
		return fmt.Errorf("IN condition requires at least one value")
	}
	b.sql.WriteString(" (")
	for i := 0; i < rv.Len(); i++ {
		if i > 0 {
			b.sql.WriteString(", ")
		}
		b.sql.WriteString(b.placeholder(rv.Index(i).Interface()))
	}
	b.sql.WriteString(")")
	return nil
}
