package pg

import (
	"database/sql/driver"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// Field describes one result column.
type Field struct {
	Name       string `json:"name"`
	DataTypeID uint32 `json:"dataTypeID"`
	DataType   string `json:"dataType"`
}

// Result is the JSON shape of a completed statement.
type Result struct {
	Rows     []map[string]any `json:"rows"`
	RowCount int64            `json:"rowCount"`
	Fields   []Field          `json:"fields"`
}

// CollectResult drains rows into a Result and closes them.
// Types are resolved through types; unknown OIDs are reported as "unknown".
func CollectResult(rows pgx.Rows, types *pgtype.Map) (*Result, error) {
	defer rows.Close()

	descs := rows.FieldDescriptions()
	fields := make([]Field, len(descs))
	for i, fd := range descs {
		fields[i] = Field{
			Name:       fd.Name,
			DataTypeID: fd.DataTypeOID,
			DataType:   typeName(types, fd.DataTypeOID),
		}
	}

	out := make([]map[string]any, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(map[string]any, len(fields))
		for i, v := range values {
			if i < len(fields) {
				row[fields[i].Name] = normalizeValue(v)
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &Result{
		Rows:     out,
		RowCount: rows.CommandTag().RowsAffected(),
		Fields:   fields,
	}, nil
}

func typeName(types *pgtype.Map, oid uint32) string {
	if types != nil {
		if t, ok := types.TypeForOID(oid); ok {
			return t.Name
		}
	}
	return "unknown"
}

// normalizeValue converts driver values that do not render well as JSON.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case [16]byte:
		return uuid.UUID(val).String()
	case driver.Valuer:
		if dv, err := val.Value(); err == nil {
			return dv
		}
	}
	return v
}
