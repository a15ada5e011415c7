package postgres

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/equiptrack/equiptrack-server/internal/model"
)

// Comparison operators accepted inside a QuerySpec value. Anything
// else in an operator object is rejected rather than silently matched.
var comparisonOps = map[string]string{
	"$gt":  ">",
	"$gte": ">=",
	"$lt":  "<",
	"$lte": "<=",
}

// buildWhere renders a QuerySpec into SQL over the JSONB data column.
// Plain values become containment matches, operator objects map onto
// JSONB comparisons. Fields are emitted in sorted order so identical
// queries always produce identical SQL. argIdx is the placeholder
// number of the first argument.
func buildWhere(query model.QuerySpec, argIdx int) (string, []any, error) {
	if len(query) == 0 {
		return "", nil, nil
	}

	fields := make([]string, 0, len(query))
	for field := range query {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	clause := ""
	args := make([]any, 0, len(query))
	for _, field := range fields {
		cond, condArgs, err := buildCondition(field, query[field], argIdx+len(args))
		if err != nil {
			return "", nil, err
		}
		clause += " AND " + cond
		args = append(args, condArgs...)
	}
	return clause, args, nil
}

func buildCondition(field string, value any, argIdx int) (string, []any, error) {
	ops, isOperator := operatorObject(value)
	if !isOperator {
		return fmt.Sprintf("data @> $%d", argIdx), []any{map[string]any{field: value}}, nil
	}

	clause := ""
	args := make([]any, 0, len(ops))
	for i, op := range ops {
		if i > 0 {
			clause += " AND "
		}
		operand, err := json.Marshal(op.operand)
		if err != nil {
			return "", nil, fmt.Errorf("failed to encode query operand for %q: %w", field, err)
		}
		idx := argIdx + len(args)
		switch {
		case op.name == "$ne":
			clause += fmt.Sprintf("NOT (data @> $%d)", idx)
			args = append(args, map[string]any{field: op.operand})
		case op.name == "$in":
			clause += fmt.Sprintf("data->'%s' <@ $%d::jsonb", field, idx)
			args = append(args, string(operand))
		case op.name == "$regex":
			clause += fmt.Sprintf("data->>'%s' ~* $%d", field, idx)
			args = append(args, fmt.Sprintf("%v", op.operand))
		default:
			sqlOp, ok := comparisonOps[op.name]
			if !ok {
				return "", nil, fmt.Errorf("unsupported query operator %q on field %q", op.name, field)
			}
			clause += fmt.Sprintf("data->'%s' %s $%d::jsonb", field, sqlOp, idx)
			args = append(args, string(operand))
		}
	}
	return clause, args, nil
}

type operator struct {
	name    string
	operand any
}

// operatorObject reports whether the value is an operator object
// (every key starts with '$') and returns its operators sorted by name.
func operatorObject(value any) ([]operator, bool) {
	m, ok := value.(map[string]any)
	if !ok || len(m) == 0 {
		return nil, false
	}
	names := make([]string, 0, len(m))
	for k := range m {
		if len(k) == 0 || k[0] != '$' {
			return nil, false
		}
		names = append(names, k)
	}
	sort.Strings(names)

	ops := make([]operator, 0, len(names))
	for _, name := range names {
		ops = append(ops, operator{name: name, operand: m[name]})
	}
	return ops, true
}
