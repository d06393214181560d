package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/mattn/go-sqlite3"
)

// Request is a length-prefixed JSON message sent to the store server.
type Request struct {
	ID           string `json:"id"`
	Op           string `json:"op,omitempty"`
	Name         string `json:"name,omitempty"`
	PrintedValue string `json:"printed_value,omitempty"`
	Source       string `json:"source,omitempty"`
	Result       string `json:"result,omitempty"`
	Limit        int    `json:"limit,omitempty"`
}

type Response struct {
	ID    string `json:"id"`
	OK    bool   `json:"ok"`
	Value any    `json:"value,omitempty"`
	Error string `json:"error,omitempty"`
}

type Definition struct {
	Name         string `json:"name"`
	PrintedValue string `json:"printed_value"`
	UpdatedAt    int64  `json:"updated_at"`
}

type HistoryEntry struct {
	ID     int64  `json:"id"`
	Source string `json:"source"`
	Result string `json:"result"`
	TS     int64  `json:"ts"`
}

const schema = `
CREATE TABLE IF NOT EXISTS definitions (
	name TEXT PRIMARY KEY,
	printed_value TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	source TEXT NOT NULL,
	result TEXT NOT NULL,
	ts INTEGER NOT NULL
);`

// Store owns the single SQLite database backing a REPL session's
// persisted definitions and evaluation history.
type Store struct {
	db       *sql.DB
	dbMu     sync.Mutex
	listener net.Listener
}

func openStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) handleOp(req *Request) *Response {
	switch req.Op {
	case "save-definition":
		return s.opSaveDefinition(req)
	case "load-definitions":
		return s.opLoadDefinitions(req)
	case "append-history":
		return s.opAppendHistory(req)
	case "history":
		return s.opHistory(req)
	case "":
		return s.opManual(req)
	default:
		return &Response{ID: req.ID, OK: false, Error: fmt.Sprintf("unknown op: %q", req.Op)}
	}
}

func (s *Store) opManual(req *Request) *Response {
	manual := `mod-store — SQLite persistence for a wisp REPL session

Operations:
  save-definition   {"op": "save-definition", "name": "x", "printed_value": "42"}
                     Upsert a global binding's canonical printed form.

  load-definitions  {"op": "load-definitions"}
                     Returns all persisted definitions, most recently
                     updated last.

  append-history     {"op": "append-history", "source": "(+ 1 2)", "result": "3"}
                     Record one evaluated top-level form and its result.

  history            {"op": "history", "limit": 50}
                     Returns the last N history entries (all, if limit is 0).`
	return &Response{ID: req.ID, OK: true, Value: manual}
}

func (s *Store) opSaveDefinition(req *Request) *Response {
	if req.Name == "" {
		return &Response{ID: req.ID, OK: false, Error: "save-definition: missing name"}
	}
	s.dbMu.Lock()
	defer s.dbMu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO definitions (name, printed_value, updated_at) VALUES (?, ?, strftime('%s','now'))
		 ON CONFLICT(name) DO UPDATE SET printed_value = excluded.printed_value, updated_at = excluded.updated_at`,
		req.Name, req.PrintedValue,
	)
	if err != nil {
		return &Response{ID: req.ID, OK: false, Error: err.Error()}
	}
	return &Response{ID: req.ID, OK: true, Value: req.Name}
}

func (s *Store) opLoadDefinitions(req *Request) *Response {
	s.dbMu.Lock()
	defer s.dbMu.Unlock()

	rows, err := s.db.Query(`SELECT name, printed_value, updated_at FROM definitions ORDER BY updated_at ASC`)
	if err != nil {
		return &Response{ID: req.ID, OK: false, Error: err.Error()}
	}
	defer rows.Close()

	defs := make([]Definition, 0)
	for rows.Next() {
		var d Definition
		if err := rows.Scan(&d.Name, &d.PrintedValue, &d.UpdatedAt); err != nil {
			return &Response{ID: req.ID, OK: false, Error: err.Error()}
		}
		defs = append(defs, d)
	}
	if err := rows.Err(); err != nil {
		return &Response{ID: req.ID, OK: false, Error: err.Error()}
	}
	return &Response{ID: req.ID, OK: true, Value: defs}
}

func (s *Store) opAppendHistory(req *Request) *Response {
	if req.Source == "" {
		return &Response{ID: req.ID, OK: false, Error: "append-history: missing source"}
	}
	s.dbMu.Lock()
	defer s.dbMu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO history (source, result, ts) VALUES (?, ?, strftime('%s','now'))`,
		req.Source, req.Result,
	)
	if err != nil {
		return &Response{ID: req.ID, OK: false, Error: err.Error()}
	}
	return &Response{ID: req.ID, OK: true, Value: "recorded"}
}

func (s *Store) opHistory(req *Request) *Response {
	s.dbMu.Lock()
	defer s.dbMu.Unlock()

	query := `SELECT id, source, result, ts FROM history ORDER BY id DESC`
	var rows *sql.Rows
	var err error
	if req.Limit > 0 {
		query += ` LIMIT ?`
		rows, err = s.db.Query(query, req.Limit)
	} else {
		rows, err = s.db.Query(query)
	}
	if err != nil {
		return &Response{ID: req.ID, OK: false, Error: err.Error()}
	}
	defer rows.Close()

	entries := make([]HistoryEntry, 0)
	for rows.Next() {
		var h HistoryEntry
		if err := rows.Scan(&h.ID, &h.Source, &h.Result, &h.TS); err != nil {
			return &Response{ID: req.ID, OK: false, Error: err.Error()}
		}
		entries = append(entries, h)
	}
	if err := rows.Err(); err != nil {
		return &Response{ID: req.ID, OK: false, Error: err.Error()}
	}
	return &Response{ID: req.ID, OK: true, Value: entries}
}

func (s *Store) handleConn(conn net.Conn) {
	defer conn.Close()

	for {
		raw, err := ReadMsg(conn)
		if err != nil {
			if err != io.EOF {
				log.Printf("read message: %v", err)
			}
			return
		}

		var req Request
		if err := json.Unmarshal(raw, &req); err != nil {
			log.Printf("unmarshal request: %v", err)
			continue
		}

		resp := s.handleOp(&req)
		if err := WriteMsg(conn, resp); err != nil {
			log.Printf("write response: %v", err)
			return
		}
	}
}

func (s *Store) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		go s.handleConn(conn)
	}
}

func (s *Store) shutdown() {
	s.listener.Close()
	s.db.Close()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	sockPath := envOr("WISP_STORE_SOCK", "/tmp/wisp-store.sock")
	dbPath := envOr("WISP_STORE_DB", "wisp-store.db")

	store, err := openStore(dbPath)
	if err != nil {
		log.Fatalf("open store %s: %v", dbPath, err)
	}

	os.Remove(sockPath)
	listener, err := net.Listen("unix", sockPath)
	if err != nil {
		store.db.Close()
		log.Fatalf("listen %s: %v", sockPath, err)
	}
	store.listener = listener
	log.Printf("listening: %s (db: %s)", sockPath, dbPath)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutting down...")
		store.shutdown()
		os.Exit(0)
	}()

	store.acceptLoop()
}
