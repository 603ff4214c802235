package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"linguaops/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS orders (
  id INTEGER PRIMARY KEY,
  number TEXT NOT NULL,
  status TEXT,
  total TEXT,
  dateCreated TEXT,
  customerName TEXT,
  raw_json TEXT NOT NULL,
  lastSeenAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_orders_number ON orders(number);
CREATE INDEX IF NOT EXISTS idx_orders_dateCreated ON orders(dateCreated);

CREATE TABLE IF NOT EXISTS bank_pdfs (
  id TEXT PRIMARY KEY,
  filename TEXT NOT NULL,
  textLength INTEGER NOT NULL,
  uploadedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS bank_transactions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  pdfId TEXT NOT NULL,
  date TEXT,
  senderName TEXT,
  amount TEXT,
  referenceText TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(pdfId) REFERENCES bank_pdfs(id)
);
CREATE INDEX IF NOT EXISTS idx_bank_transactions_pdfId ON bank_transactions(pdfId);

CREATE TABLE IF NOT EXISTS transaction_matches (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  transactionId INTEGER NOT NULL,
  orderId INTEGER NOT NULL,
  orderNumber TEXT NOT NULL,
  customerName TEXT,
  confidence INTEGER NOT NULL,
  reason TEXT NOT NULL,
  nameScore REAL,
  amountMatch INTEGER NOT NULL DEFAULT 0,
  numberInRef INTEGER NOT NULL DEFAULT 0,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(transactionId) REFERENCES bank_transactions(id)
);
CREATE INDEX IF NOT EXISTS idx_transaction_matches_txId ON transaction_matches(transactionId);

CREATE TABLE IF NOT EXISTS exams (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  kind TEXT NOT NULL,
  date TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(kind, date)
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) UpsertOrders(orders []internal.Order) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
INSERT INTO orders (id, number, status, total, dateCreated, customerName, raw_json, lastSeenAt)
VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(id) DO UPDATE SET
  number=excluded.number,
  status=excluded.status,
  total=excluded.total,
  dateCreated=excluded.dateCreated,
  customerName=excluded.customerName,
  raw_json=excluded.raw_json,
  lastSeenAt=CURRENT_TIMESTAMP
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, order := range orders {
		rawJSON, _ := json.Marshal(order)
		name := strings.TrimSpace(order.Billing.FirstName + " " + order.Billing.LastName)
		if _, err := stmt.Exec(
			order.ID, order.Number, order.Status, order.Total,
			order.DateCreated, name, string(rawJSON),
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListRecentOrders returns the newest cached orders, the candidate
// window for bank matching.
func (d *DB) ListRecentOrders(limit int) ([]internal.Order, error) {
	rows, err := d.conn.Query(`
SELECT raw_json FROM orders ORDER BY dateCreated DESC, id DESC LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.Order
	for rows.Next() {
		var rawJSON string
		if err := rows.Scan(&rawJSON); err != nil {
			return nil, err
		}
		var order internal.Order
		if err := json.Unmarshal([]byte(rawJSON), &order); err != nil {
			continue
		}
		out = append(out, order)
	}
	return out, rows.Err()
}

func (d *DB) InsertBankPDF(id, filename string, textLength int) error {
	_, err := d.conn.Exec(`
INSERT INTO bank_pdfs (id, filename, textLength) VALUES (?, ?, ?)
`, id, filename, textLength)
	return err
}

// InsertTransactions stores parsed transactions and returns them with
// their assigned ids.
func (d *DB) InsertTransactions(txs []internal.BankTransaction) ([]internal.BankTransaction, error) {
	tx, err := d.conn.Begin()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
INSERT INTO bank_transactions (pdfId, date, senderName, amount, referenceText, status)
VALUES (?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	out := make([]internal.BankTransaction, 0, len(txs))
	for _, t := range txs {
		result, err := stmt.Exec(t.PDFSourceID, t.Date, t.SenderName, t.Amount, t.ReferenceText, string(t.Status))
		if err != nil {
			return nil, err
		}
		id, err := result.LastInsertId()
		if err != nil {
			return nil, err
		}
		t.ID = int(id)
		out = append(out, t)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

func (d *DB) InsertMatchCandidates(candidates []internal.MatchCandidate) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
INSERT INTO transaction_matches
  (transactionId, orderId, orderNumber, customerName, confidence, reason, nameScore, amountMatch, numberInRef)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range candidates {
		if _, err := stmt.Exec(
			c.TransactionID, c.OrderID, c.OrderNumber, c.CustomerName,
			c.Confidence, c.Reason, c.NameScore, boolToInt(c.AmountMatch), boolToInt(c.NumberInRef),
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListCandidatesByPDF returns all match candidates of one statement
// upload, grouped by transaction and ordered best-first.
func (d *DB) ListCandidatesByPDF(pdfID string) (map[int][]internal.MatchCandidate, error) {
	rows, err := d.conn.Query(`
SELECT m.transactionId, m.orderId, m.orderNumber, m.customerName,
       m.confidence, m.reason, m.nameScore, m.amountMatch, m.numberInRef
FROM transaction_matches m
JOIN bank_transactions t ON t.id = m.transactionId
WHERE t.pdfId = ?
ORDER BY m.transactionId ASC, m.confidence ASC
`, pdfID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[int][]internal.MatchCandidate{}
	for rows.Next() {
		var c internal.MatchCandidate
		var amountMatch, numberInRef int
		if err := rows.Scan(
			&c.TransactionID, &c.OrderID, &c.OrderNumber, &c.CustomerName,
			&c.Confidence, &c.Reason, &c.NameScore, &amountMatch, &numberInRef,
		); err != nil {
			return nil, err
		}
		c.AmountMatch = amountMatch != 0
		c.NumberInRef = numberInRef != 0
		out[c.TransactionID] = append(out[c.TransactionID], c)
	}
	return out, rows.Err()
}

// ListUnmatchedTransactions returns pending transactions of an upload
// that no candidate was recorded for.
func (d *DB) ListUnmatchedTransactions(pdfID string) ([]internal.BankTransaction, error) {
	rows, err := d.conn.Query(`
SELECT t.id, t.pdfId, t.date, t.senderName, t.amount, t.referenceText, t.status
FROM bank_transactions t
WHERE t.pdfId = ?
  AND t.status = 'pending'
  AND NOT EXISTS (SELECT 1 FROM transaction_matches m WHERE m.transactionId = t.id)
ORDER BY t.id ASC
`, pdfID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.BankTransaction
	for rows.Next() {
		var t internal.BankTransaction
		var status string
		if err := rows.Scan(&t.ID, &t.PDFSourceID, &t.Date, &t.SenderName, &t.Amount, &t.ReferenceText, &status); err != nil {
			return nil, err
		}
		t.Status = internal.TransactionStatus(status)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (d *DB) AddExam(kind, date string) (internal.ExamDefinition, error) {
	result, err := d.conn.Exec(`INSERT INTO exams (kind, date) VALUES (?, ?)`, kind, date)
	if err != nil {
		return internal.ExamDefinition{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return internal.ExamDefinition{}, err
	}
	return internal.ExamDefinition{ID: int(id), Kind: kind, Date: date}, nil
}

func (d *DB) ListExams(kindFilter string) ([]internal.ExamDefinition, error) {
	query := `SELECT id, kind, date FROM exams ORDER BY date ASC, id ASC`
	args := []any{}
	if kindFilter != "" {
		query = `SELECT id, kind, date FROM exams WHERE kind = ? ORDER BY date ASC, id ASC`
		args = append(args, kindFilter)
	}

	rows, err := d.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.ExamDefinition
	for rows.Next() {
		var exam internal.ExamDefinition
		if err := rows.Scan(&exam.ID, &exam.Kind, &exam.Date); err != nil {
			return nil, err
		}
		out = append(out, exam)
	}
	return out, rows.Err()
}

func (d *DB) GetExam(id int) (*internal.ExamDefinition, error) {
	var exam internal.ExamDefinition
	err := d.conn.QueryRow(`SELECT id, kind, date FROM exams WHERE id = ?`, id).
		Scan(&exam.ID, &exam.Kind, &exam.Date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

func (d *DB) RemoveExams(ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	_, err := d.conn.Exec(`DELETE FROM exams WHERE id IN (`+placeholders+`)`, args...)
	return err
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
