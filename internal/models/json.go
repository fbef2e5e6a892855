package models

import (
	"database/sql/driver"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// JSONMap is a schema-less string-keyed mapping stored as a JSON column.
// It delegates storage to gorm.io/datatypes.JSONMap and maps the column type per dialect.
// Numbers read back from the database are json.Number, not float64.
type JSONMap map[string]interface{}

// GormDataType is the generic type gorm uses when parsing the schema
func (JSONMap) GormDataType() string {
	return "json"
}

// Value delegates to datatypes.JSONMap
func (m JSONMap) Value() (driver.Value, error) {
	return datatypes.JSONMap(m).Value()
}

// Scan delegates to datatypes.JSONMap
func (m *JSONMap) Scan(value interface{}) error {
	var dm datatypes.JSONMap
	if err := dm.Scan(value); err != nil {
		return err
	}
	*m = JSONMap(dm)
	return nil
}

// GormDBDataType ensures the correct data type is used for each database driver.
// This resolves the issue where MSSQL does not support the 'json' data type.
func (JSONMap) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "mysql":
		return "JSON"
	case "postgres":
		return "JSONB"
	case "sqlserver", "mssql":
		return "NVARCHAR(MAX)"
	case "sqlite":
		return "JSON"
	}
	return "TEXT"
}

// OrEmpty returns m, or an empty non-nil map when m is nil.
func (m JSONMap) OrEmpty() JSONMap {
	if m == nil {
		return JSONMap{}
	}
	return m
}
