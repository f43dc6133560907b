package db

const schemaSQL = `
-- ===========================================================================
-- DEVICES (registry persistence)
-- ===========================================================================

CREATE TABLE IF NOT EXISTS devices (
  user_id TEXT NOT NULL,
  device_id TEXT NOT NULL,
  name TEXT NOT NULL,
  room TEXT NOT NULL,
  type TEXT NOT NULL,
  status TEXT NOT NULL,
  value INTEGER,
  position INTEGER NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL,
  PRIMARY KEY (user_id, device_id)
);

CREATE INDEX IF NOT EXISTS idx_devices_user ON devices(user_id, position);

-- ===========================================================================
-- ROUTINES (actions serialized as a JSON array)
-- ===========================================================================

CREATE TABLE IF NOT EXISTS routines (
  user_id TEXT NOT NULL,
  routine_id TEXT NOT NULL,
  name TEXT NOT NULL,
  icon TEXT NOT NULL DEFAULT '',
  actions TEXT NOT NULL DEFAULT '[]',
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL,
  PRIMARY KEY (user_id, routine_id)
);

-- ===========================================================================
-- SCHEDULES (days serialized as a JSON array of weekday tokens)
-- ===========================================================================

CREATE TABLE IF NOT EXISTS schedules (
  user_id TEXT NOT NULL,
  schedule_id TEXT NOT NULL,
  name TEXT NOT NULL,
  device_id TEXT NOT NULL,
  time TEXT NOT NULL,
  action TEXT NOT NULL,
  days TEXT NOT NULL DEFAULT '[]',
  enabled INTEGER NOT NULL DEFAULT 1,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL,
  PRIMARY KEY (user_id, schedule_id)
);

CREATE INDEX IF NOT EXISTS idx_schedules_enabled ON schedules(user_id, enabled);

-- ===========================================================================
-- ENERGY USAGE (read-only samples feeding the advisor)
-- ===========================================================================

CREATE TABLE IF NOT EXISTS energy_usage (
  user_id TEXT NOT NULL,
  day TEXT NOT NULL,
  usage REAL NOT NULL DEFAULT 0,
  PRIMARY KEY (user_id, day)
);

-- ===========================================================================
-- AUDIT EVENTS
-- ===========================================================================

CREATE TABLE IF NOT EXISTS audit_events (
  event_id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id TEXT NOT NULL,
  level TEXT NOT NULL DEFAULT 'INFO',
  type TEXT NOT NULL,
  message TEXT NOT NULL,
  details TEXT,
  created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_events_user_created ON audit_events(user_id, created_at);
`
