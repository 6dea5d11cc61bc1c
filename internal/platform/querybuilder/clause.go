package querybuilder

import (
	"strconv"
	"strings"
)

// args accumulates positional arguments and hands out $n placeholders.
type args struct {
	values []any
}

func (a *args) bind(v any) string {
	a.values = append(a.values, v)
	return "$" + strconv.Itoa(len(a.values))
}

// expand rewrites each '?' in expr into the next placeholder.
func (a *args) expand(expr string, values []any) string {
	if len(values) == 0 {
		return expr
	}

	var out strings.Builder
	out.Grow(len(expr) + len(values)*2)
	next := 0
	for i := 0; i < len(expr); i++ {
		if expr[i] != '?' || next >= len(values) {
			out.WriteByte(expr[i])
			continue
		}
		out.WriteString(a.bind(values[next]))
		next++
	}
	return out.String()
}

type Condition interface {
	render(buf *strings.Builder, a *args)
}

type conditionFunc func(buf *strings.Builder, a *args)

func (f conditionFunc) render(buf *strings.Builder, a *args) { f(buf, a) }

func Eq(column string, value any) Condition {
	return conditionFunc(func(buf *strings.Builder, a *args) {
		buf.WriteString(column)
		buf.WriteString(" = ")
		buf.WriteString(a.bind(value))
	})
}

// In renders "column IN (...)"; an empty set matches nothing.
func In(column string, values []any) Condition {
	return conditionFunc(func(buf *strings.Builder, a *args) {
		if len(values) == 0 {
			buf.WriteString("1=0")
			return
		}
		buf.WriteString(column)
		buf.WriteString(" IN (")
		for i, v := range values {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(a.bind(v))
		}
		buf.WriteByte(')')
	})
}

func IsNull(column string) Condition {
	return conditionFunc(func(buf *strings.Builder, _ *args) {
		buf.WriteString(column)
		buf.WriteString(" IS NULL")
	})
}

func IsNotNull(column string) Condition {
	return conditionFunc(func(buf *strings.Builder, _ *args) {
		buf.WriteString(column)
		buf.WriteString(" IS NOT NULL")
	})
}

// Expr embeds raw SQL; '?' marks are bound to values in order.
func Expr(expr string, values ...any) Condition {
	return conditionFunc(func(buf *strings.Builder, a *args) {
		buf.WriteString(a.expand(expr, values))
	})
}

func writeWhere(buf *strings.Builder, conditions []Condition, a *args) {
	for i, c := range conditions {
		if i == 0 {
			buf.WriteString(" WHERE ")
		} else {
			buf.WriteString(" AND ")
		}
		c.render(buf, a)
	}
}

func writeList(buf *strings.Builder, keyword string, parts []string) {
	if len(parts) == 0 {
		return
	}
	buf.WriteByte(' ')
	buf.WriteString(keyword)
	buf.WriteByte(' ')
	buf.WriteString(strings.Join(parts, ", "))
}
