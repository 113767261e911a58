package resources

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// PGRepo implements ResourcesRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a resource. Tags are stored as a JSON array.
func (r *PGRepo) Create(ctx context.Context, res Resource) error {
	const query = `
INSERT INTO resources (
    id,
    owner_id,
    title,
    type,
    url,
    description,
    tags,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	tags, err := json.Marshal(nonNilTags(res.Tags))
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}
	_, err = r.DB.ExecContext(ctx, query,
		res.ID,
		res.OwnerID,
		res.Title,
		nullString(res.Type),
		nullString(res.URL),
		nullString(res.Description),
		string(tags),
		res.CreatedAt,
	)
	return err
}

// ListByOwner returns an owner's resources ordered by created_at descending.
func (r *PGRepo) ListByOwner(ctx context.Context, ownerID string) ([]Resource, error) {
	const query = `
SELECT id, owner_id, title, type, url, description, tags, created_at
FROM resources
WHERE owner_id = $1
ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Resource{}
	for rows.Next() {
		var res Resource
		var typ, url, description, tags sql.NullString
		if err := rows.Scan(&res.ID, &res.OwnerID, &res.Title, &typ, &url, &description, &tags, &res.CreatedAt); err != nil {
			return nil, err
		}
		res.Type = typ.String
		res.URL = url.String
		res.Description = description.String
		if tags.Valid && tags.String != "" {
			if err := json.Unmarshal([]byte(tags.String), &res.Tags); err != nil {
				return nil, fmt.Errorf("decode tags for resource %s: %w", res.ID, err)
			}
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
