package model

import (
	"database/sql/driver"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// StringList is stored as TEXT[] on PostgreSQL and as an array literal in TEXT elsewhere.
type StringList pq.StringArray

func (l StringList) Value() (driver.Value, error) {
	return pq.StringArray(l).Value()
}

func (l *StringList) Scan(src interface{}) error {
	return (*pq.StringArray)(l).Scan(src)
}

func (StringList) GormDataType() string {
	return "text[]"
}

func (StringList) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

// Int64List is stored as BIGINT[] on PostgreSQL and as an array literal in TEXT elsewhere.
type Int64List pq.Int64Array

func (l Int64List) Value() (driver.Value, error) {
	return pq.Int64Array(l).Value()
}

func (l *Int64List) Scan(src interface{}) error {
	return (*pq.Int64Array)(l).Scan(src)
}

func (Int64List) GormDataType() string {
	return "bigint[]"
}

func (Int64List) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "bigint[]"
	}
	return "text"
}

// Contains reports whether v is in the list.
func (l Int64List) Contains(v int64) bool {
	for _, item := range l {
		if item == v {
			return true
		}
	}
	return false
}
