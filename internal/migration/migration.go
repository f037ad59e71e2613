// Package migration holds the SQL schema for the setlist warehouse.
package migration

// Create is the initial schema. Ordering of the key columns follows
// cardinality, low to high, so range scans by band stay cheap.
const Create = `
CREATE TABLE IF NOT EXISTS Show (
  id TEXT PRIMARY KEY,
  band_name TEXT NOT NULL,
  show_date TEXT NOT NULL,
  venue_name TEXT NOT NULL,
  venue_city TEXT,
  venue_state TEXT,
  venue_country TEXT,
  tour_name TEXT,
  show_notes TEXT,
  verified INTEGER NOT NULL DEFAULT 0,
  source_url TEXT,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE (band_name, show_date, venue_name)
);

CREATE TABLE IF NOT EXISTS SetlistEntry (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  show_id TEXT NOT NULL,
  band_name TEXT NOT NULL,
  song_name TEXT NOT NULL,
  show_date TEXT NOT NULL,
  set_type TEXT NOT NULL,
  set_position INTEGER NOT NULL,
  transitions_into TEXT,
  is_jam INTEGER NOT NULL DEFAULT 0,
  is_tease INTEGER NOT NULL DEFAULT 0,
  is_partial INTEGER NOT NULL DEFAULT 0,
  is_cover INTEGER NOT NULL DEFAULT 0,
  original_artist TEXT,
  performance_notes TEXT,
  FOREIGN KEY (show_id) REFERENCES Show(id),
  UNIQUE (show_id, set_type, set_position)
);

CREATE INDEX IF NOT EXISTS idx_setlist_band_song_date
  ON SetlistEntry (band_name, song_name, show_date);

CREATE TABLE IF NOT EXISTS Prediction (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  band_name TEXT NOT NULL,
  algorithm_name TEXT NOT NULL,
  show_date TEXT NOT NULL,
  venue_name TEXT,
  venue_city TEXT,
  venue_state TEXT,
  data_through_date TEXT,
  total_shows_analyzed INTEGER,
  generated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE (band_name, algorithm_name, show_date)
);

CREATE TABLE IF NOT EXISTS PredictedSong (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  prediction_id INTEGER NOT NULL,
  song_name TEXT NOT NULL,
  slot_type TEXT NOT NULL,
  confidence REAL NOT NULL,
  rank INTEGER NOT NULL,
  reasoning TEXT,
  total_plays INTEGER,
  last_played TEXT,
  FOREIGN KEY (prediction_id) REFERENCES Prediction(id),
  UNIQUE (prediction_id, song_name)
);

CREATE TABLE IF NOT EXISTS Report (
  email TEXT PRIMARY KEY,
  band_name TEXT NOT NULL,
  sent DATETIME,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`
