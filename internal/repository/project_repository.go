package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/promptdesk/promptdesk/internal/database"
	"github.com/promptdesk/promptdesk/internal/models"
)

// ProjectRepository handles database operations for projects.
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `id, name, description, status, priority, progress,
	created_by, assigned_to, created_at, updated_at`

// Create inserts a new project.
func (r *ProjectRepository) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = "active"
	}
	if p.Priority == "" {
		p.Priority = models.UrgencyMedium
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	query := database.ConvertPlaceholders(`
		INSERT INTO projects (id, name, description, status, priority, progress, created_by, assigned_to, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Description, p.Status, p.Priority, p.Progress,
		nullable(p.CreatedBy), nullable(p.AssignedTo), now, now,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetByID retrieves one project.
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	query := database.ConvertPlaceholders(`SELECT ` + projectColumns + ` FROM projects WHERE id = ?`)
	return scanProject(r.db.QueryRowContext(ctx, query, id))
}

// List returns a bounded page of projects.
func (r *ProjectRepository) List(ctx context.Context, page, perPage int) ([]*models.Project, error) {
	limit, offset := pageBounds(page, perPage)
	query := database.ConvertPlaceholders(`
		SELECT ` + projectColumns + ` FROM projects
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`)
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// Update rewrites the mutable project fields.
func (r *ProjectRepository) Update(ctx context.Context, p *models.Project) error {
	query := database.ConvertPlaceholders(`
		UPDATE projects
		SET name = ?, description = ?, status = ?, priority = ?, progress = ?, assigned_to = ?, updated_at = ?
		WHERE id = ?
	`)
	result, err := r.db.ExecContext(ctx, query,
		p.Name, p.Description, p.Status, p.Priority, p.Progress,
		nullable(p.AssignedTo), time.Now().UTC(), p.ID,
	)
	if err != nil {
		return err
	}
	return requireRows(result)
}

// Delete removes a project row.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	query := database.ConvertPlaceholders(`DELETE FROM projects WHERE id = ?`)
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return requireRows(result)
}

func scanProject(row rowScanner) (*models.Project, error) {
	p := &models.Project{}
	var description, createdBy, assignedTo sql.NullString
	err := row.Scan(
		&p.ID, &p.Name, &description, &p.Status, &p.Priority, &p.Progress,
		&createdBy, &assignedTo, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Description = description.String
	p.CreatedBy = createdBy.String
	p.AssignedTo = assignedTo.String
	return p, nil
}
