// Package db provides the embedded record schema and seed catalog.
package db

import "embed"

// Schema contains the DDL statements for the record tables.
//
//go:embed migrations/001_schema.sql
var Schema string

// Seed holds the demo catalog: seed/categories.json and seed/products.json.
//
//go:embed seed/*.json
var Seed embed.FS
