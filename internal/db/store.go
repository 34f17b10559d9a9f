package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/oqulab/virtlab/internal/api"
	"github.com/oqulab/virtlab/internal/services"
)

// SQLStore implements api.Store on a database/sql connection. The schema is
// created by RunMigrations; isolation is left to the database.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) (*SQLStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &SQLStore{db: db}, nil
}

var _ api.Store = (*SQLStore)(nil)

func toNullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func fromNullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func encodeJSON(v any) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func (s *SQLStore) AddUser(u *services.User) (*services.User, error) {
	res, err := s.db.Exec(
		`INSERT INTO users (email, password_hash, full_name, role, grade, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.Email, u.PasswordHash, u.FullName, u.Role, toNullInt(u.Grade), u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	cp := *u
	cp.ID = id
	return &cp, nil
}

func (s *SQLStore) FindUserByEmail(email string) (*services.User, error) {
	return s.scanUser(s.db.QueryRow(
		`SELECT id, email, password_hash, full_name, role, grade, created_at, updated_at
		 FROM users WHERE email = ?`, email))
}

func (s *SQLStore) GetUser(id int64) (*services.User, error) {
	return s.scanUser(s.db.QueryRow(
		`SELECT id, email, password_hash, full_name, role, grade, created_at, updated_at
		 FROM users WHERE id = ?`, id))
}

func (s *SQLStore) scanUser(row *sql.Row) (*services.User, error) {
	var u services.User
	var grade sql.NullInt64
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Role, &grade, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.Grade = fromNullInt(grade)
	return &u, nil
}

func (s *SQLStore) AddLab(l *services.Lab) (*services.Lab, error) {
	config, err := encodeJSON(l.Config)
	if err != nil {
		return nil, fmt.Errorf("encode lab config: %w", err)
	}
	res, err := s.db.Exec(
		`INSERT INTO labs (title_kk, title_ru, subject, grade, lab_number, description_kk,
		                   description_ru, difficulty, estimated_time, config, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.TitleKK, l.TitleRU, l.Subject, l.Grade, l.LabNumber, l.DescriptionKK,
		l.DescriptionRU, l.Difficulty, l.EstimatedTime, config, l.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert lab: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	cp := *l
	cp.ID = id
	return &cp, nil
}

const labColumns = `id, title_kk, title_ru, subject, grade, lab_number, description_kk,
	description_ru, difficulty, estimated_time, config, created_at`

func (s *SQLStore) GetLab(id int64) (*services.Lab, error) {
	rows, err := s.db.Query(`SELECT `+labColumns+` FROM labs WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("get lab: %w", err)
	}
	defer rows.Close()
	labs, err := scanLabs(rows)
	if err != nil {
		return nil, err
	}
	if len(labs) == 0 {
		return nil, nil
	}
	return labs[0], nil
}

func (s *SQLStore) ListLabs(f services.LabFilter) ([]*services.Lab, error) {
	query := `SELECT ` + labColumns + ` FROM labs WHERE 1=1`
	args := []any{}
	if f.Grade != nil {
		query += ` AND grade = ?`
		args = append(args, *f.Grade)
	}
	if f.Subject != "" {
		query += ` AND subject = ?`
		args = append(args, f.Subject)
	}
	query += ` ORDER BY id`
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list labs: %w", err)
	}
	defer rows.Close()
	return scanLabs(rows)
}

func (s *SQLStore) FindLabByTitle(titleKK string) (*services.Lab, error) {
	rows, err := s.db.Query(`SELECT `+labColumns+` FROM labs WHERE title_kk = ?`, titleKK)
	if err != nil {
		return nil, fmt.Errorf("find lab by title: %w", err)
	}
	defer rows.Close()
	labs, err := scanLabs(rows)
	if err != nil {
		return nil, err
	}
	if len(labs) == 0 {
		return nil, nil
	}
	return labs[0], nil
}

func scanLabs(rows *sql.Rows) ([]*services.Lab, error) {
	out := []*services.Lab{}
	for rows.Next() {
		var l services.Lab
		var labNumber, descKK, descRU, config sql.NullString
		if err := rows.Scan(&l.ID, &l.TitleKK, &l.TitleRU, &l.Subject, &l.Grade, &labNumber,
			&descKK, &descRU, &l.Difficulty, &l.EstimatedTime, &config, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan lab: %w", err)
		}
		l.LabNumber = labNumber.String
		l.DescriptionKK = descKK.String
		l.DescriptionRU = descRU.String
		if config.Valid && config.String != "" {
			if err := json.Unmarshal([]byte(config.String), &l.Config); err != nil {
				return nil, fmt.Errorf("decode lab config: %w", err)
			}
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

func (s *SQLStore) AddResult(r *services.Result) (*services.Result, error) {
	answers, err := encodeJSON(r.Answers)
	if err != nil {
		return nil, fmt.Errorf("encode answers: %w", err)
	}
	var completedAt sql.NullTime
	if r.CompletedAt != nil {
		completedAt = sql.NullTime{Time: *r.CompletedAt, Valid: true}
	}
	var score sql.NullFloat64
	if r.Score != nil {
		score = sql.NullFloat64{Float64: *r.Score, Valid: true}
	}
	res, err := s.db.Exec(
		`INSERT INTO results (user_id, lab_id, started_at, completed_at, score, time_spent, attempts, status, answers)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.UserID, r.LabID, r.StartedAt, completedAt, score, r.TimeSpent, r.Attempts, r.Status, answers,
	)
	if err != nil {
		return nil, fmt.Errorf("insert result: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	cp := *r
	cp.ID = id
	return &cp, nil
}

func (s *SQLStore) ListResultsByUser(userID int64) ([]*services.Result, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, lab_id, started_at, completed_at, score, time_spent, attempts, status, answers
		 FROM results WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	out := []*services.Result{}
	for rows.Next() {
		var r services.Result
		var completedAt sql.NullTime
		var score sql.NullFloat64
		var answers sql.NullString
		if err := rows.Scan(&r.ID, &r.UserID, &r.LabID, &r.StartedAt, &completedAt,
			&score, &r.TimeSpent, &r.Attempts, &r.Status, &answers); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		if completedAt.Valid {
			t := completedAt.Time
			r.CompletedAt = &t
		}
		if score.Valid {
			v := score.Float64
			r.Score = &v
		}
		if answers.Valid && answers.String != "" {
			if err := json.Unmarshal([]byte(answers.String), &r.Answers); err != nil {
				return nil, fmt.Errorf("decode answers: %w", err)
			}
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetProgress(userID, labID int64) (*services.Progress, error) {
	var p services.Progress
	err := s.db.QueryRow(
		`SELECT id, user_id, lab_id, current_step, is_completed, last_accessed
		 FROM progress WHERE user_id = ? AND lab_id = ?`, userID, labID,
	).Scan(&p.ID, &p.UserID, &p.LabID, &p.CurrentStep, &p.IsCompleted, &p.LastAccessed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}
	return &p, nil
}

func (s *SQLStore) UpsertProgress(p *services.Progress) (*services.Progress, error) {
	_, err := s.db.Exec(
		`INSERT INTO progress (user_id, lab_id, current_step, is_completed, last_accessed)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, lab_id) DO UPDATE SET
		   current_step = excluded.current_step,
		   is_completed = excluded.is_completed,
		   last_accessed = excluded.last_accessed`,
		p.UserID, p.LabID, p.CurrentStep, p.IsCompleted, p.LastAccessed,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert progress: %w", err)
	}
	return s.GetProgress(p.UserID, p.LabID)
}
