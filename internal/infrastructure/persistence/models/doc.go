// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Reference lists are stored inline as JSON columns rather than join tables:
// item definitions keep their attribute ids, inventory items keep their
// {attributeId, value} pairs. Resolving them is the read path's job.
//
// Structure:
// - base.go: BaseModel (id, timestamps, soft delete)
// - inventory.go: users, categories, attributes, item definitions, inventory items, log entries
package models
