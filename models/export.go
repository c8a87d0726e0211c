// ABOUTME: Portable copy of one tenant's hierarchy and reports
// ABOUTME: Used by snapshot backup and restore
package models

import "time"

// ExportVersion is bumped whenever the TenantExport layout changes.
const ExportVersion = 1

// TenantExport holds everything a user can see. Reports are ordered
// oldest first so a restore replays them in order.
type TenantExport struct {
	Version    int        `json:"version"`
	Username   string     `json:"username"`
	ExportedAt time.Time  `json:"exported_at"`
	Owners     []Owner    `json:"owners"`
	Offices    []Office   `json:"offices"`
	Employees  []Employee `json:"employees"`
	Reports    []Report   `json:"reports"`
}

// RestoreResult counts what a restore created.
type RestoreResult struct {
	Owners    int `json:"owners"`
	Offices   int `json:"offices"`
	Employees int `json:"employees"`
	Reports   int `json:"reports"`
}
