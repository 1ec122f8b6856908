// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Structure:
//   - base.go: shared columns (id, timestamps, version, created_by)
//   - catalog.go: suppliers, raw materials, finished products, BOM items
//   - lot.go: material lots and consumption records
//   - production.go: production orders
//   - haccp.go: critical control points and monitoring logs
package models
