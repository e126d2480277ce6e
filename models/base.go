package models

import (
	"log"

	"bitbucket.org/kwahlelwa/spazaops_backend/config"
)

// MigrateTable migrates the service-local tables. Platform entities (Shop,
// Inspection, Attendance, ...) are not in this list on purpose: the platform
// backend owns their storage.
func MigrateTable() {
	db := config.GetDB()
	err := db.AutoMigrate(
		&PendingWrite{},
		&FlushRun{},
		&FlushErrorRecord{},
	)
	if err != nil {
		log.Printf("auto migrate failed: %v", err)
	}
}
