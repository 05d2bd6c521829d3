// Package sqltype provides a shared mapping from SQL data types to semantic
// property kinds. This keeps the kind classification consistent between
// introspection and the emitted bean model.
package sqltype

import "strings"

// Kind represents the semantic category of a SQL column type.
type Kind int

const (
	// KindString is the default kind for text and unknown SQL types.
	KindString Kind = iota
	// KindInt represents integer numeric types.
	KindInt
	// KindFloat represents floating-point numeric types.
	KindFloat
	// KindDecimal represents fixed-point numeric types.
	KindDecimal
	// KindBool represents boolean types.
	KindBool
	// KindBytes represents binary types.
	KindBytes
	// KindTime represents time-of-day types.
	KindTime
	// KindDate represents calendar date types.
	KindDate
	// KindDateTime represents date-with-time types.
	KindDateTime
	// KindJSON represents JSON document types.
	KindJSON
	// KindEnum represents single-choice enumeration types.
	KindEnum
	// KindSet represents multi-choice set types.
	KindSet
)

// Map converts a SQL data type string to its semantic kind.
// The input is case-insensitive. Size specifiers like (10,2) or (255) are
// stripped before matching, so both INFORMATION_SCHEMA.COLUMNS.DATA_TYPE and
// COLUMN_TYPE values work.
func Map(sqlType string) Kind {
	if idx := strings.Index(sqlType, "("); idx != -1 {
		sqlType = sqlType[:idx]
	}
	switch strings.ToUpper(strings.TrimSpace(sqlType)) {
	case "TINYINT", "SMALLINT", "MEDIUMINT", "INT",
		"INTEGER", "BIGINT", "SERIAL", "BIT", "YEAR":
		return KindInt
	case "FLOAT", "DOUBLE":
		return KindFloat
	case "DECIMAL", "NUMERIC":
		return KindDecimal
	case "BOOL", "BOOLEAN":
		return KindBool
	case "BLOB", "TINYBLOB", "MEDIUMBLOB", "LONGBLOB",
		"BINARY", "VARBINARY":
		return KindBytes
	case "TIME":
		return KindTime
	case "DATE":
		return KindDate
	case "DATETIME", "TIMESTAMP":
		return KindDateTime
	case "JSON":
		return KindJSON
	case "ENUM":
		return KindEnum
	case "SET":
		return KindSet
	case "CHAR", "VARCHAR", "TINYTEXT", "TEXT",
		"MEDIUMTEXT", "LONGTEXT":
		return KindString
	default:
		return KindString
	}
}

// String returns the kind name used in the emitted model.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindDecimal:
		return "decimal"
	case KindBool:
		return "bool"
	case KindBytes:
		return "bytes"
	case KindTime:
		return "time"
	case KindDate:
		return "date"
	case KindDateTime:
		return "datetime"
	case KindJSON:
		return "json"
	case KindEnum:
		return "enum"
	case KindSet:
		return "set"
	default:
		return "string"
	}
}

// IsTemporal reports whether the kind carries date or time semantics.
func (k Kind) IsTemporal() bool {
	return k == KindTime || k == KindDate || k == KindDateTime
}

// IsNumeric reports whether the kind is a numeric category.
func (k Kind) IsNumeric() bool {
	return k == KindInt || k == KindFloat || k == KindDecimal
}

// MarshalText implements encoding.TextMarshaler so kinds render as their
// names wherever a Kind is encoded directly.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
