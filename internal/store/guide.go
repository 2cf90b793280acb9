package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/waymark-labs/waymark/internal/guide"
)

// guideRepo implements GuideRepo. Each guide is one row holding the
// whole document as JSON; the version column is the optimistic
// concurrency token and never lives inside the document.
type guideRepo struct {
	db *sql.DB
}

func (r *guideRepo) Create(ctx context.Context, g *guide.Guide) error {
	doc, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("marshal guide: %w", err)
	}

	created := g.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO guides (guide_id, doc, version, created_at, updated_at)
		 VALUES (?, ?, 1, ?, ?)`,
		g.ID, string(doc), fmtTime(created), fmtTime(time.Now()))
	if err != nil {
		return fmt.Errorf("insert guide: %w", err)
	}

	g.Version = 1
	return nil
}

func (r *guideRepo) Load(ctx context.Context, id string) (*guide.Guide, error) {
	var doc string
	var version int
	err := r.db.QueryRowContext(ctx,
		`SELECT doc, version FROM guides WHERE guide_id = ?`, id).Scan(&doc, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Kind: "guide", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("load guide: %w", err)
	}

	return decodeGuide(doc, version)
}

func (r *guideRepo) Save(ctx context.Context, g *guide.Guide, expectedVersion int) error {
	doc, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("marshal guide: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE guides SET doc = ?, version = ?, updated_at = ?
		 WHERE guide_id = ? AND version = ?`,
		string(doc), expectedVersion+1, fmtTime(time.Now()), g.ID, expectedVersion)
	if err != nil {
		return fmt.Errorf("update guide: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update guide: %w", err)
	}
	if n == 0 {
		var actual int
		err := r.db.QueryRowContext(ctx,
			`SELECT version FROM guides WHERE guide_id = ?`, g.ID).Scan(&actual)
		if errors.Is(err, sql.ErrNoRows) {
			return &NotFoundError{Kind: "guide", ID: g.ID}
		}
		if err != nil {
			return fmt.Errorf("check guide version: %w", err)
		}
		return &VersionConflictError{GuideID: g.ID, Expected: expectedVersion, Actual: actual}
	}

	g.Version = expectedVersion + 1
	return nil
}

func (r *guideRepo) List(ctx context.Context) ([]*guide.Guide, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT doc, version FROM guides ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list guides: %w", err)
	}
	defer rows.Close()

	var out []*guide.Guide
	for rows.Next() {
		var doc string
		var version int
		if err := rows.Scan(&doc, &version); err != nil {
			return nil, fmt.Errorf("scan guide: %w", err)
		}
		g, err := decodeGuide(doc, version)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func decodeGuide(doc string, version int) (*guide.Guide, error) {
	var g guide.Guide
	if err := json.Unmarshal([]byte(doc), &g); err != nil {
		return nil, fmt.Errorf("decode guide doc: %w", err)
	}
	g.Version = version
	return &g, nil
}
