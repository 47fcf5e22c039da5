package db

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS zones (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT UNIQUE NOT NULL,
    pin INTEGER UNIQUE,
    current_temp_c REAL NOT NULL DEFAULT 0,
    target_temp_c REAL NOT NULL DEFAULT 0,
    target_source TEXT NOT NULL DEFAULT ''
);`,
	`CREATE TABLE IF NOT EXISTS schedules (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    zone_id INTEGER NOT NULL REFERENCES zones(id) ON DELETE CASCADE,
    day_of_week INTEGER NOT NULL CHECK (day_of_week BETWEEN 0 AND 6),
    start_time TEXT NOT NULL,
    end_time TEXT NOT NULL,
    target_temp_c REAL NOT NULL,
    priority INTEGER NOT NULL DEFAULT 0
);`,
	`CREATE INDEX IF NOT EXISTS idx_schedules_zone ON schedules (zone_id, day_of_week);`,
	`CREATE TABLE IF NOT EXISTS manual_overrides (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    zone_id INTEGER NOT NULL REFERENCES zones(id) ON DELETE CASCADE,
    target_temp_c REAL NOT NULL,
    active_from TIMESTAMP NOT NULL,
    active_until TIMESTAMP
);`,
	`CREATE INDEX IF NOT EXISTS idx_overrides_zone ON manual_overrides (zone_id);`,
	`CREATE TABLE IF NOT EXISTS temperature_logs (
    id TEXT PRIMARY KEY,
    zone_id INTEGER NOT NULL REFERENCES zones(id) ON DELETE CASCADE,
    temp_c REAL NOT NULL,
    source TEXT NOT NULL,
    occurred_at TIMESTAMP NOT NULL
);`,
	`CREATE INDEX IF NOT EXISTS idx_temperature_logs_time ON temperature_logs (occurred_at);`,
	`CREATE TABLE IF NOT EXISTS settings (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    eco_temp_c REAL NOT NULL,
    updated_at TIMESTAMP NOT NULL
);`,
	`CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL
);`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS zones (
    id SERIAL PRIMARY KEY,
    name TEXT UNIQUE NOT NULL,
    pin INTEGER UNIQUE,
    current_temp_c DOUBLE PRECISION NOT NULL DEFAULT 0,
    target_temp_c DOUBLE PRECISION NOT NULL DEFAULT 0,
    target_source TEXT NOT NULL DEFAULT ''
);`,
	`CREATE TABLE IF NOT EXISTS schedules (
    id SERIAL PRIMARY KEY,
    zone_id INTEGER NOT NULL REFERENCES zones(id) ON DELETE CASCADE,
    day_of_week SMALLINT NOT NULL CHECK (day_of_week BETWEEN 0 AND 6),
    start_time TIME NOT NULL,
    end_time TIME NOT NULL,
    target_temp_c DOUBLE PRECISION NOT NULL,
    priority INTEGER NOT NULL DEFAULT 0
);`,
	`CREATE INDEX IF NOT EXISTS idx_schedules_zone ON schedules (zone_id, day_of_week);`,
	`CREATE TABLE IF NOT EXISTS manual_overrides (
    id SERIAL PRIMARY KEY,
    zone_id INTEGER NOT NULL REFERENCES zones(id) ON DELETE CASCADE,
    target_temp_c DOUBLE PRECISION NOT NULL,
    active_from TIMESTAMPTZ NOT NULL,
    active_until TIMESTAMPTZ
);`,
	`CREATE INDEX IF NOT EXISTS idx_overrides_zone ON manual_overrides (zone_id);`,
	`CREATE TABLE IF NOT EXISTS temperature_logs (
    id UUID PRIMARY KEY,
    zone_id INTEGER NOT NULL REFERENCES zones(id) ON DELETE CASCADE,
    temp_c DOUBLE PRECISION NOT NULL,
    source TEXT NOT NULL,
    occurred_at TIMESTAMPTZ NOT NULL
);`,
	`CREATE INDEX IF NOT EXISTS idx_temperature_logs_time ON temperature_logs (occurred_at);`,
	`CREATE TABLE IF NOT EXISTS settings (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    eco_temp_c DOUBLE PRECISION NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);`,
	`CREATE TABLE IF NOT EXISTS users (
    id SERIAL PRIMARY KEY,
    username TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL
);`,
}
