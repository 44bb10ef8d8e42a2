// Package database owns the sqlite connection and schema migration for the
// local library store. Per-entity operations live in the sub-packages
// (manga, collections, progress, readersettings), each exposing a Repository
// constructed with the shared *gorm.DB.
package database
