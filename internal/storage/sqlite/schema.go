package sqlite

const schema = `
-- Discovery runs table
CREATE TABLE IF NOT EXISTS discovery_runs (
    id TEXT PRIMARY KEY,
    keywords TEXT NOT NULL DEFAULT '[]',
    max_results INTEGER NOT NULL DEFAULT 50,
    status TEXT NOT NULL DEFAULT 'running' CHECK(status IN ('running', 'completed', 'failed')),
    started_at DATETIME NOT NULL,
    trace TEXT NOT NULL DEFAULT '[]',
    sources TEXT NOT NULL DEFAULT '[]',
    stats TEXT NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON discovery_runs(status);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON discovery_runs(started_at);

-- Discovered agents table
-- source_url is the agent's identity: re-discovering the same URL updates
-- the existing row instead of inserting a duplicate.
CREATE TABLE IF NOT EXISTS discovered_agents (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    slug TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    capabilities TEXT NOT NULL DEFAULT '[]',
    framework TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT '[]',
    endpoint_url TEXT NOT NULL DEFAULT '',
    documentation_url TEXT NOT NULL DEFAULT '',
    source_url TEXT NOT NULL UNIQUE,
    contacts TEXT NOT NULL DEFAULT '{}',
    confidence_score REAL NOT NULL DEFAULT 0 CHECK(confidence_score >= 0 AND confidence_score <= 1),
    raw_lead TEXT,
    discovered_at DATETIME NOT NULL,
    discovered_by TEXT NOT NULL DEFAULT '',
    verified INTEGER NOT NULL DEFAULT 0,
    verified_by TEXT NOT NULL DEFAULT '',
    verified_at DATETIME,
    verification_notes TEXT NOT NULL DEFAULT '',
    registered INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_agents_category ON discovered_agents(category);
CREATE INDEX IF NOT EXISTS idx_agents_verified ON discovered_agents(verified);
CREATE INDEX IF NOT EXISTS idx_agents_registered ON discovered_agents(registered);
CREATE INDEX IF NOT EXISTS idx_agents_confidence ON discovered_agents(confidence_score);

-- Outreach drafts table
CREATE TABLE IF NOT EXISTS agent_outreach (
    id TEXT PRIMARY KEY,
    agent_id TEXT NOT NULL,
    contact_email TEXT NOT NULL DEFAULT '',
    github_url TEXT NOT NULL DEFAULT '',
    message TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'pending' CHECK(status IN ('pending', 'sent', 'failed')),
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (agent_id) REFERENCES discovered_agents(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_outreach_agent ON agent_outreach(agent_id);
CREATE INDEX IF NOT EXISTS idx_outreach_status ON agent_outreach(status);
`
