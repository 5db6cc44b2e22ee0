package repository

import (
	"gorm.io/gorm"
)

// Store groups the persistence accessors for users, stories, comments and
// archived stories. Each method runs one statement (or one small statement
// group) and commits independently.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	if db == nil {
		panic("database connection cannot be nil for Store")
	}
	return &Store{db: db}
}
