// ABOUTME: Database schema definitions
// ABOUTME: Owner -> office -> employee -> report tables with cascade and nullify rules
package db

import (
	"database/sql"
)

// Timestamps are unix milliseconds (UTC) so range filters compare numerically.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS owners (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	name TEXT NOT NULL CHECK(length(trim(name)) > 0),
	email TEXT,
	last_contacted INTEGER,
	FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_owners_user_id ON owners(user_id);

CREATE TABLE IF NOT EXISTS offices (
	id TEXT PRIMARY KEY,
	owner_id TEXT NOT NULL,
	name TEXT NOT NULL,
	number INTEGER NOT NULL CHECK(number BETWEEN 1 AND 100),
	address TEXT NOT NULL,
	city TEXT NOT NULL,
	state TEXT NOT NULL,
	zip_code TEXT NOT NULL,
	last_contacted INTEGER,
	FOREIGN KEY (owner_id) REFERENCES owners(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_offices_owner_id ON offices(owner_id);

CREATE TABLE IF NOT EXISTS employees (
	id TEXT PRIMARY KEY,
	office_id TEXT NOT NULL,
	owner_id TEXT NOT NULL,
	name TEXT NOT NULL,
	position TEXT NOT NULL,
	email TEXT,
	potential INTEGER NOT NULL DEFAULT 5 CHECK(potential BETWEEN 1 AND 10),
	FOREIGN KEY (office_id) REFERENCES offices(id) ON DELETE CASCADE,
	FOREIGN KEY (owner_id) REFERENCES owners(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_employees_office_id ON employees(office_id);
CREATE INDEX IF NOT EXISTS idx_employees_owner_id ON employees(owner_id);
CREATE INDEX IF NOT EXISTS idx_employees_email ON employees(email);

CREATE TABLE IF NOT EXISTS reports (
	id TEXT PRIMARY KEY,
	employee_id TEXT,
	office_id TEXT,
	owner_id TEXT NOT NULL,
	author_id TEXT NOT NULL,
	subject TEXT,
	content TEXT NOT NULL,
	calltype TEXT NOT NULL CHECK(calltype IN ('phone', 'email', 'fov', 'teams', 'other')),
	vibe INTEGER NOT NULL DEFAULT 5 CHECK(vibe BETWEEN 1 AND 10),
	transcript INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL,
	FOREIGN KEY (employee_id) REFERENCES employees(id) ON DELETE SET NULL,
	FOREIGN KEY (office_id) REFERENCES offices(id) ON DELETE CASCADE,
	FOREIGN KEY (owner_id) REFERENCES owners(id) ON DELETE CASCADE,
	FOREIGN KEY (author_id) REFERENCES users(id)
);

CREATE INDEX IF NOT EXISTS idx_reports_owner_created ON reports(owner_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_reports_office_id ON reports(office_id);
CREATE INDEX IF NOT EXISTS idx_reports_employee_id ON reports(employee_id);
CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at DESC);

CREATE TABLE IF NOT EXISTS import_log (
	user_id TEXT NOT NULL,
	source TEXT NOT NULL,
	source_id TEXT NOT NULL,
	report_id TEXT NOT NULL,
	imported_at INTEGER NOT NULL,
	PRIMARY KEY (user_id, source, source_id),
	FOREIGN KEY (report_id) REFERENCES reports(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_import_log_report ON import_log(report_id);

CREATE TABLE IF NOT EXISTS sync_state (
	user_id TEXT NOT NULL,
	service TEXT NOT NULL,
	last_sync_time INTEGER,
	last_sync_token TEXT,
	status TEXT NOT NULL CHECK(status IN ('idle', 'syncing', 'error')),
	error_message TEXT,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (user_id, service),
	FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
