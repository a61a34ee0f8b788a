package db

// Raw reference pages, keyed by URL, so a refresh can be replayed offline
const createPagesTable = `
CREATE TABLE IF NOT EXISTS pages (
    url TEXT PRIMARY KEY,
    body BLOB NOT NULL,
    fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

const selectPage = `
SELECT body FROM pages WHERE url = ?
`

const upsertPage = `
INSERT OR REPLACE INTO pages (url, body, fetched_at)
VALUES (?, ?, CURRENT_TIMESTAMP)
`

const selectPageInfo = `
SELECT url, LENGTH(body), fetched_at FROM pages ORDER BY url
`

const deletePages = `
DELETE FROM pages
`

// Snapshot of the classified dataset; position keeps the list order
const createCountiesTable = `
CREATE TABLE IF NOT EXISTS counties (
    position INTEGER PRIMARY KEY,
    jurisdiction TEXT NOT NULL,
    name TEXT,
    code TEXT NOT NULL,
    seat TEXT,
    established_year INTEGER NOT NULL,
    etymology TEXT,
    origin_category TEXT
);

CREATE INDEX IF NOT EXISTS idx_counties_jurisdiction ON counties(jurisdiction);
CREATE INDEX IF NOT EXISTS idx_counties_year ON counties(established_year);
`

const deleteCounties = `
DELETE FROM counties
`

const insertCounty = `
INSERT INTO counties (
    position, jurisdiction, name, code, seat,
    established_year, etymology, origin_category
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

const selectCounties = `
SELECT jurisdiction, name, code, seat, established_year, etymology, COALESCE(origin_category, '')
FROM counties
ORDER BY position
`

const selectCountiesByJurisdiction = `
SELECT jurisdiction, name, code, seat, established_year, etymology, COALESCE(origin_category, '')
FROM counties
WHERE jurisdiction = ?
ORDER BY position
`

const selectJurisdictionStats = `
SELECT
    jurisdiction,
    COUNT(*) as counties,
    MIN(established_year) as earliest,
    MAX(established_year) as latest,
    SUM(CASE WHEN COALESCE(origin_category, '') IN ('', 'Unclassified') THEN 1 ELSE 0 END) as unclassified
FROM counties
GROUP BY jurisdiction
ORDER BY MIN(position)
`
