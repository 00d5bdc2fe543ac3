package archive

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    archived_at TIMESTAMP NOT NULL,
    player_name TEXT,
    player_geid TEXT,
    map_name TEXT,
    branch TEXT,
    game_version TEXT,
    start_time TIMESTAMP,
    end_time TIMESTAMP,
    uptime_seconds REAL,
    total_earned REAL NOT NULL,
    total_spent REAL NOT NULL,
    net_profit REAL NOT NULL,
    items_purchased INTEGER NOT NULL,
    items_sold INTEGER NOT NULL,
    missions_completed INTEGER NOT NULL,
    missions_abandoned INTEGER NOT NULL,
    missions_failed INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id INTEGER NOT NULL,
    item_name TEXT NOT NULL,
    kind TEXT NOT NULL,
    price REAL NOT NULL,
    quantity INTEGER NOT NULL,
    timestamp TIMESTAMP,
    location TEXT,
    FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS missions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id INTEGER NOT NULL,
    mission_id TEXT NOT NULL,
    player_name TEXT,
    player_id TEXT,
    completion_type TEXT NOT NULL,
    reason TEXT,
    timestamp TIMESTAMP,
    FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_transactions_session ON transactions(session_id);
CREATE INDEX IF NOT EXISTS idx_missions_session ON missions(session_id);
CREATE INDEX IF NOT EXISTS idx_sessions_archived ON sessions(archived_at);
`
