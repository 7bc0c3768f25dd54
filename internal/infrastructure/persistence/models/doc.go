// Package models holds the GORM rows behind the stock tables and the mappers
// to and from the domain types, which carry no GORM tags.
//
//   - base.go: shared id/timestamp and version columns, All for AutoMigrate
//   - catalog.go: products, stores, categories, subcategories
//   - inventory.go: inventory levels, stock entries, stock counts and items
//   - report.go: closed weekly reports and their lines
//
// Quantities and money are decimal(18,4). The SQL under migrations/ owns the
// schema; AutoMigrate only builds throwaway SQLite databases in tests.
package models
