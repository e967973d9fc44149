// Package store contains the SQLite persistence layer: the object and field
// catalog, page layouts and record types, the metadata resolver, standard
// record tables and the account lookup.
package store

import "database/sql"

// Store bundles every store implementation over one database handle.
type Store struct {
	DB       *sql.DB
	Objects  ObjectStore
	Fields   FieldStore
	Layouts  LayoutStore
	Metadata MetadataStore
	Records  RecordStore
	Accounts AccountSearchStore
	Users    UserStore
}

// New wires up the store set over db.
func New(db *sql.DB) *Store {
	return &Store{
		DB:       db,
		Objects:  NewSQLiteObjectStore(db),
		Fields:   NewSQLiteFieldStore(db),
		Layouts:  NewSQLiteLayoutStore(db),
		Metadata: NewSQLiteMetadataStore(db),
		Records:  NewSQLiteRecordStore(db),
		Accounts: NewSQLiteAccountSearchStore(db),
		Users:    NewSQLiteUserStore(db),
	}
}
