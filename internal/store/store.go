// Package store persists scores, replays and chart preferences in sqlite.
package store

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"git.lost.host/meutraa/tempo/internal/game"
	"git.lost.host/meutraa/tempo/internal/replay"
	"git.lost.host/meutraa/tempo/internal/score"
)

const schema = `
create table if not exists scores
  (
	  id integer not null primary key,
	  sum text not null,
	  mode text not null,
	  username text,
	  mods text,
	  rate real,
	  score integer,
	  accuracy real,
	  max_combo integer,
	  failed integer,
	  result text,
	  replay blob,
	  created integer
  );
create index if not exists scores_sum on scores(sum);
create table if not exists prefs
  (
	  sum text not null,
	  mode text not null,
	  offset real,
	  scroll_speed real,
	  primary key (sum, mode)
  );
`

// Store is safe for concurrent use; preference saves arrive from
// background goroutines.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// Entry is a stored score summary.
type Entry struct {
	ID       int64
	Sum      string
	Mode     string
	Username string
	Mods     string
	Rate     float64
	Score    int64
	Accuracy float64
	MaxCombo int
	Failed   bool
	Created  time.Time
}

// Open opens or creates the database at path. ":memory:" is accepted.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); nil != err {
			return nil, errors.Wrap(err, "unable to create database directory")
		}
	}
	db, err := sql.Open("sqlite3", path)
	if nil != err {
		return nil, errors.Wrap(err, "unable to open database")
	}
	// A single connection keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); nil != err {
		db.Close()
		return nil, errors.Wrap(err, "unable to create tables")
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveScore stores a final score together with its replay.
func (s *Store) SaveScore(sc score.Score, r *replay.Replay, failed bool) (int64, error) {
	result, err := json.Marshal(sc)
	if nil != err {
		return 0, errors.Wrap(err, "unable to marshal score")
	}
	var data []byte
	if r != nil {
		var buf bytes.Buffer
		if err := replay.Encode(&buf, r); nil != err {
			return 0, errors.Wrap(err, "unable to encode replay")
		}
		data = buf.Bytes()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.Exec(
		"insert into scores(sum, mode, username, mods, rate, score, accuracy, max_combo, failed, result, replay, created) values(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		sc.ChartHash, sc.Mode, sc.Username, sc.Mods.String(), sc.Mods.Rate(),
		sc.Score, sc.Accuracy, sc.MaxCombo, failed, string(result), data, time.Now().Unix(),
	)
	if nil != err {
		return 0, errors.Wrap(err, "unable to save score")
	}
	return res.LastInsertId()
}

// Scores lists stored scores for a chart, best first.
func (s *Store) Scores(sum string) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.Query(
		"select id, sum, mode, username, mods, rate, score, accuracy, max_combo, failed, created from scores where sum = ? order by score desc, id asc",
		sum,
	)
	if nil != err {
		return nil, errors.Wrap(err, "unable to load scores")
	}
	defer rows.Close()
	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var created int64
		if err := rows.Scan(&e.ID, &e.Sum, &e.Mode, &e.Username, &e.Mods, &e.Rate, &e.Score, &e.Accuracy, &e.MaxCombo, &e.Failed, &created); nil != err {
			return nil, errors.Wrap(err, "unable to scan score")
		}
		e.Created = time.Unix(created, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Result returns the full stored score for an id.
func (s *Store) Result(id int64) (score.Score, error) {
	var sc score.Score
	var result string
	s.mu.Lock()
	err := s.db.QueryRow("select result from scores where id = ?", id).Scan(&result)
	s.mu.Unlock()
	if nil != err {
		return sc, errors.Wrapf(err, "unable to load score %d", id)
	}
	if err := json.Unmarshal([]byte(result), &sc); nil != err {
		return sc, errors.Wrap(err, "unable to unmarshal score")
	}
	return sc, nil
}

// Replay returns the stored replay for a score id.
func (s *Store) Replay(id int64) (*replay.Replay, error) {
	var data []byte
	s.mu.Lock()
	err := s.db.QueryRow("select replay from scores where id = ?", id).Scan(&data)
	s.mu.Unlock()
	if nil != err {
		return nil, errors.Wrapf(err, "unable to load replay %d", id)
	}
	if len(data) == 0 {
		return nil, errors.Errorf("score %d has no replay", id)
	}
	r, err := replay.Decode(bytes.NewReader(data))
	if nil != err {
		return nil, errors.Wrap(err, "unable to decode replay")
	}
	return r, nil
}

// LoadPrefs returns the remembered preferences for a chart and mode.
// The boolean is false when nothing was stored.
func (s *Store) LoadPrefs(sum, mode string) (game.ChartPrefs, bool, error) {
	var p game.ChartPrefs
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.db.QueryRow("select offset, scroll_speed from prefs where sum = ? and mode = ?", sum, mode).Scan(&p.Offset, &p.ScrollSpeed)
	if err == sql.ErrNoRows {
		return p, false, nil
	}
	if nil != err {
		return p, false, errors.Wrap(err, "unable to load preferences")
	}
	return p, true, nil
}

// SavePrefs stores preferences for a chart and mode.
func (s *Store) SavePrefs(sum, mode string, p game.ChartPrefs) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(
		"insert into prefs(sum, mode, offset, scroll_speed) values(?, ?, ?, ?) on conflict(sum, mode) do update set offset = excluded.offset, scroll_speed = excluded.scroll_speed",
		sum, mode, p.Offset, p.ScrollSpeed,
	)
	return errors.Wrap(err, "unable to save preferences")
}
