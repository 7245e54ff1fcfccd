// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM to configure either a SQLite or a MySQL
// connection based on the application's configuration. SQLite is the default
// for the single-node batch deployment; MySQL supports shared deployments
// where external consumers read the time-series tables.
//
// # Connect
//
// The Connect function establishes a connection to the database and verifies
// it with a bounded ping. Foreign key enforcement is enabled for SQLite so
// that measurement and event rows cannot reference a missing station.
//
// # Schema Inspection
//
// GetTableColumns retrieves the column definitions of a table across both
// dialects, used by the migrate command to report the effective schema.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "stations")
package database
