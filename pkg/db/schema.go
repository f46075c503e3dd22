package db

const schema = `
PRAGMA synchronous = NORMAL;
PRAGMA temp_store = MEMORY;

-- One row per generated summary. key_points holds a JSON array of strings in
-- the order the model produced them.
CREATE TABLE IF NOT EXISTS summaries (
    id TEXT PRIMARY KEY,
    url TEXT NOT NULL,
    title TEXT NOT NULL,
    summary TEXT NOT NULL DEFAULT '',
    key_points TEXT NOT NULL DEFAULT '[]',
    created_at INTEGER NOT NULL,  -- Unix nanoseconds, UTC
    updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_summaries_created ON summaries(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_summaries_url ON summaries(url);
`
