package sqlite

// schema is applied on every open; all statements are idempotent.
//
// The goal and history rows store their documents as JSON. The goal
// table is keyed so multiple goals could coexist, but the engine runs
// against a single active goal tracked in the config table. Identity
// and tasks are flattened into columns so the CLI can query them
// without unmarshalling.
const schema = `
CREATE TABLE IF NOT EXISTS goals (
	id         TEXT PRIMARY KEY,
	data       TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS identity (
	domain     TEXT NOT NULL,
	capability TEXT NOT NULL,
	level      REAL NOT NULL CHECK (level >= 1 AND level <= 10),
	PRIMARY KEY (domain, capability)
);

CREATE TABLE IF NOT EXISTS tasks (
	id       TEXT PRIMARY KEY,
	status   TEXT NOT NULL,
	due_date TIMESTAMP NOT NULL,
	data     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);

CREATE TABLE IF NOT EXISTS cycle_history (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at TIMESTAMP NOT NULL,
	data       TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS config (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`
