// Package project persists ROI simulations. Creating a project runs the full
// calculation and stores inputs together with the derived results, so a saved
// simulation can always be re-rendered without recomputing.
package project

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/rpanav/roinav/internal/roi"
)

// ErrNotFound reports a missing project id.
var ErrNotFound = errors.New("project not found")

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Inputs groups everything the caller supplied for one simulation.
type Inputs struct {
	Operational roi.OperationalInput `json:"operational"`
	Complexity  roi.ComplexityInput  `json:"complexity"`
	Strategic   roi.StrategicInput   `json:"strategic"`
}

// Project is one persisted simulation.
type Project struct {
	ID              string     `json:"id"`
	ProjectName     string     `json:"project_name"`
	OwnerEmail      string     `json:"owner_email"`
	ResponsibleName string     `json:"responsible_name"`
	CreatedAt       string     `json:"created_at"`
	UpdatedAt       string     `json:"updated_at"`
	Inputs          Inputs     `json:"inputs"`
	Results         roi.Result `json:"results"`
}

// CreateInput carries the fields needed to create a project.
type CreateInput struct {
	ProjectName     string `json:"projectName"`
	OwnerEmail      string `json:"ownerEmail"`
	ResponsibleName string `json:"responsibleName"`
	Inputs
}

// UpdateInput patches a project. Nil fields are left untouched; supplying
// Inputs recalculates the stored results so they never desync.
type UpdateInput struct {
	ProjectName     *string `json:"projectName"`
	ResponsibleName *string `json:"responsibleName"`
	Inputs          *Inputs `json:"inputs"`
}

// Store is the sqlite-backed project repository.
type Store struct {
	db     *sql.DB
	engine *roi.Engine
}

// NewStore returns a project store computing results through engine.
func NewStore(db *sql.DB, engine *roi.Engine) *Store {
	return &Store{db: db, engine: engine}
}

// Create runs the ROI calculation for the given inputs and persists the
// project.
func (s *Store) Create(ctx context.Context, input CreateInput) (Project, error) {
	results, err := s.engine.Calculate(ctx, input.Operational, input.Complexity, input.Strategic)
	if err != nil {
		return Project{}, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	p := Project{
		ID:              uuid.NewString(),
		ProjectName:     input.ProjectName,
		OwnerEmail:      input.OwnerEmail,
		ResponsibleName: input.ResponsibleName,
		CreatedAt:       now,
		UpdatedAt:       now,
		Inputs:          input.Inputs,
		Results:         results,
	}

	inputsJSON, resultsJSON, err := encodePayloads(p)
	if err != nil {
		return Project{}, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO projects (id, project_name, owner_email, responsible_name, created_at, updated_at, inputs_json, results_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.ProjectName, p.OwnerEmail, p.ResponsibleName, p.CreatedAt, p.UpdatedAt, inputsJSON, resultsJSON)
	if err != nil {
		return Project{}, fmt.Errorf("insert project: %w", err)
	}

	return p, nil
}

// Get loads one project by id.
func (s *Store) Get(ctx context.Context, id string) (Project, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, project_name, owner_email, responsible_name, created_at, updated_at, inputs_json, results_json
		FROM projects
		WHERE id = ?
	`, id)

	p, err := scanProject(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Project{}, ErrNotFound
	}
	if err != nil {
		return Project{}, fmt.Errorf("query project: %w", err)
	}
	return p, nil
}

// List returns projects newest first, optionally filtered by owner. An empty
// owner or "all" lists everything. A non-positive limit uses the default and
// oversized limits are clamped.
func (s *Store) List(ctx context.Context, owner string, limit int) ([]Project, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if owner == "all" {
		owner = ""
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_name, owner_email, responsible_name, created_at, updated_at, inputs_json, results_json
		FROM projects
		WHERE (? = '' OR owner_email = ?)
		ORDER BY datetime(created_at) DESC, id DESC
		LIMIT ?
	`, owner, owner, limit)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	projects := make([]Project, 0)
	for rows.Next() {
		p, err := scanProject(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}

	return projects, nil
}

// Update patches the project and, when new inputs are supplied, recalculates
// its results before persisting.
func (s *Store) Update(ctx context.Context, id string, input UpdateInput) (Project, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return Project{}, err
	}

	if input.ProjectName != nil {
		p.ProjectName = *input.ProjectName
	}
	if input.ResponsibleName != nil {
		p.ResponsibleName = *input.ResponsibleName
	}
	if input.Inputs != nil {
		p.Inputs = *input.Inputs
		results, err := s.engine.Calculate(ctx, p.Inputs.Operational, p.Inputs.Complexity, p.Inputs.Strategic)
		if err != nil {
			return Project{}, err
		}
		p.Results = results
	}
	p.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	inputsJSON, resultsJSON, err := encodePayloads(p)
	if err != nil {
		return Project{}, err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE projects
		SET
			project_name = ?,
			responsible_name = ?,
			updated_at = ?,
			inputs_json = ?,
			results_json = ?
		WHERE id = ?
	`, p.ProjectName, p.ResponsibleName, p.UpdatedAt, inputsJSON, resultsJSON, id)
	if err != nil {
		return Project{}, fmt.Errorf("update project: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return Project{}, fmt.Errorf("update project: %w", err)
	}
	if affected == 0 {
		return Project{}, ErrNotFound
	}

	return p, nil
}

// Delete removes one project by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func encodePayloads(p Project) (string, string, error) {
	inputsJSON, err := json.Marshal(p.Inputs)
	if err != nil {
		return "", "", fmt.Errorf("encode project inputs: %w", err)
	}
	resultsJSON, err := json.Marshal(p.Results)
	if err != nil {
		return "", "", fmt.Errorf("encode project results: %w", err)
	}
	return string(inputsJSON), string(resultsJSON), nil
}

func scanProject(scan func(dest ...any) error) (Project, error) {
	var p Project
	var inputsJSON, resultsJSON string
	if err := scan(&p.ID, &p.ProjectName, &p.OwnerEmail, &p.ResponsibleName, &p.CreatedAt, &p.UpdatedAt, &inputsJSON, &resultsJSON); err != nil {
		return Project{}, err
	}
	if err := json.Unmarshal([]byte(inputsJSON), &p.Inputs); err != nil {
		return Project{}, fmt.Errorf("decode project inputs: %w", err)
	}
	if err := json.Unmarshal([]byte(resultsJSON), &p.Results); err != nil {
		return Project{}, fmt.Errorf("decode project results: %w", err)
	}
	return p, nil
}
