package roles

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"interview-backend/internal/evaluation"
	"interview-backend/internal/shared/telemetry"
)

// PGRepo implements RolesRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a role and its questions in one transaction.
func (r *PGRepo) Create(ctx context.Context, role Role) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var weights sql.NullString
	if enc := role.Weights.Encode(); enc != "" {
		weights = sql.NullString{String: enc, Valid: true}
	}
	if _, err = tx.ExecContext(ctx, `
INSERT INTO roles (id, owner_id, name, description, weights, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`,
		role.ID, role.OwnerID, role.Name, role.Description, weights, role.CreatedAt,
	); err != nil {
		return err
	}

	for i, q := range role.Questions {
		expected := q.ExpectedPoints
		if expected == nil {
			expected = []string{}
		}
		var points []byte
		if points, err = json.Marshal(expected); err != nil {
			return fmt.Errorf("encode expected points: %w", err)
		}
		if _, err = tx.ExecContext(ctx, `
INSERT INTO role_questions (id, role_id, position, question, topic, difficulty, expected_points)
VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			q.ID, role.ID, i, q.Question, q.Topic, q.Difficulty, string(points),
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Get returns a role and its questions in stored order.
func (r *PGRepo) Get(ctx context.Context, roleID string) (Role, error) {
	const query = `
SELECT id, owner_id, name, description, weights, created_at
FROM roles
WHERE id = $1`
	var role Role
	var description, weights sql.NullString
	err := r.DB.QueryRowContext(ctx, query, roleID).Scan(
		&role.ID, &role.OwnerID, &role.Name, &description, &weights, &role.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Role{}, ErrNotFound
		}
		return Role{}, err
	}
	role.Description = description.String
	role.Weights = decodeWeights(role.ID, weights)

	role.Questions, err = r.questions(ctx, role.ID)
	if err != nil {
		return Role{}, err
	}
	return role, nil
}

// ListByOwner returns an owner's roles without their questions, newest first.
func (r *PGRepo) ListByOwner(ctx context.Context, ownerID string) ([]Role, error) {
	const query = `
SELECT id, owner_id, name, description, weights, created_at
FROM roles
WHERE owner_id = $1
ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Role{}
	for rows.Next() {
		var role Role
		var description, weights sql.NullString
		if err := rows.Scan(&role.ID, &role.OwnerID, &role.Name, &description, &weights, &role.CreatedAt); err != nil {
			return nil, err
		}
		role.Description = description.String
		role.Weights = decodeWeights(role.ID, weights)
		out = append(out, role)
	}
	return out, rows.Err()
}

func (r *PGRepo) questions(ctx context.Context, roleID string) ([]Question, error) {
	const query = `
SELECT id, question, topic, difficulty, expected_points
FROM role_questions
WHERE role_id = $1
ORDER BY position ASC`
	rows, err := r.DB.QueryContext(ctx, query, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Question
	for rows.Next() {
		q := Question{RoleID: roleID}
		var topic, difficulty, points sql.NullString
		if err := rows.Scan(&q.ID, &q.Question, &topic, &difficulty, &points); err != nil {
			return nil, err
		}
		q.Topic = topic.String
		q.Difficulty = difficulty.String
		if points.Valid && points.String != "" {
			if err := json.Unmarshal([]byte(points.String), &q.ExpectedPoints); err != nil {
				return nil, fmt.Errorf("decode expected points for question %s: %w", q.ID, err)
			}
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// decodeWeights treats an unreadable stored configuration as unset.
func decodeWeights(roleID string, raw sql.NullString) evaluation.Weights {
	if !raw.Valid {
		return evaluation.Weights{}
	}
	w, err := evaluation.ParseWeights(raw.String)
	if err != nil {
		telemetry.Warn("roles.weights_invalid", map[string]any{
			"role_id": roleID,
			"error":   err.Error(),
		})
		return evaluation.Weights{}
	}
	return w
}
