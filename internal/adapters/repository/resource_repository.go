package repository

import (
	"context"

	"github.com/AchilleasB/smart-city/citizen-services/internal/core/domain"
)

// Departments

func (r *SQLRepository) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	depts := []domain.Department{}
	err := r.selectAll(ctx, &depts, `SELECT id, name, description FROM departments ORDER BY id`)
	return depts, err
}

func (r *SQLRepository) FindDepartment(ctx context.Context, id int64) (*domain.Department, error) {
	var dept domain.Department
	if err := r.get(ctx, &dept, `SELECT id, name, description FROM departments WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *SQLRepository) CreateDepartment(ctx context.Context, dept domain.Department) (int64, error) {
	return r.insert(ctx, r.db,
		`INSERT INTO departments (name, description) VALUES (?, ?) RETURNING id`,
		dept.Name, dept.Description)
}

// Alerts

func (r *SQLRepository) CreateAlert(ctx context.Context, alert domain.Alert) (int64, error) {
	return r.insert(ctx, r.db,
		`INSERT INTO alerts (title, message, type, created_at) VALUES (?, ?, ?, ?) RETURNING id`,
		alert.Title, alert.Message, alert.Type, alert.CreatedAt)
}

func (r *SQLRepository) ListRecentAlerts(ctx context.Context, limit int) ([]domain.Alert, error) {
	alerts := []domain.Alert{}
	err := r.selectAll(ctx, &alerts, `
		SELECT id, title, message, type, created_at
		FROM alerts
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	return alerts, err
}

// Jobs

const jobColumns = `id, title, department, description, deadline, created_at`

func (r *SQLRepository) CreateJob(ctx context.Context, job domain.Job) (int64, error) {
	return r.insert(ctx, r.db, `
		INSERT INTO jobs (title, department, description, deadline, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`,
		job.Title, job.Department, job.Description, job.Deadline, job.CreatedAt)
}

func (r *SQLRepository) ListJobs(ctx context.Context) ([]domain.Job, error) {
	jobs := []domain.Job{}
	err := r.selectAll(ctx, &jobs, `SELECT `+jobColumns+` FROM jobs ORDER BY created_at DESC, id DESC`)
	return jobs, err
}

func (r *SQLRepository) FindJob(ctx context.Context, id int64) (*domain.Job, error) {
	var job domain.Job
	if err := r.get(ctx, &job, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return &job, nil
}

// Job applications

const applicationViewQuery = `
	SELECT a.id, a.job_id, a.citizen_id, a.resume_url, a.status, a.applied_at,
		j.title AS job_title, u.name AS citizen_name, u.email AS citizen_email
	FROM job_applications a
	JOIN jobs j ON j.id = a.job_id
	JOIN users u ON u.id = a.citizen_id`

func (r *SQLRepository) CreateApplication(ctx context.Context, app domain.JobApplication) (int64, error) {
	return r.insert(ctx, r.db, `
		INSERT INTO job_applications (job_id, citizen_id, resume_url, status, applied_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`,
		app.JobID, app.CitizenID, app.ResumeURL, app.Status, app.AppliedAt)
}

func (r *SQLRepository) FindApplication(ctx context.Context, jobID, citizenID int64) (*domain.JobApplication, error) {
	var app domain.JobApplication
	err := r.get(ctx, &app, `
		SELECT id, job_id, citizen_id, resume_url, status, applied_at
		FROM job_applications
		WHERE job_id = ? AND citizen_id = ?`, jobID, citizenID)
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *SQLRepository) ListApplicationsByCitizen(ctx context.Context, citizenID int64) ([]domain.JobApplicationView, error) {
	apps := []domain.JobApplicationView{}
	err := r.selectAll(ctx, &apps, applicationViewQuery+` WHERE a.citizen_id = ? ORDER BY a.applied_at DESC, a.id DESC`, citizenID)
	return apps, err
}

func (r *SQLRepository) ListApplicationsByJob(ctx context.Context, jobID int64) ([]domain.JobApplicationView, error) {
	apps := []domain.JobApplicationView{}
	err := r.selectAll(ctx, &apps, applicationViewQuery+` WHERE a.job_id = ? ORDER BY a.applied_at DESC, a.id DESC`, jobID)
	return apps, err
}

func (r *SQLRepository) UpdateApplicationStatus(ctx context.Context, id int64, status domain.ApplicationStatus) error {
	return r.execOne(ctx, r.db, `UPDATE job_applications SET status = ? WHERE id = ?`, status, id)
}

// Explore locations

func (r *SQLRepository) ListLocations(ctx context.Context) ([]domain.ExploreLocation, error) {
	locs := []domain.ExploreLocation{}
	err := r.selectAll(ctx, &locs, `
		SELECT id, name, address, category_slug, rating, created_by, created_at
		FROM explore_locations
		ORDER BY created_at DESC, id DESC`)
	return locs, err
}

func (r *SQLRepository) CreateLocation(ctx context.Context, loc domain.ExploreLocation) (int64, error) {
	return r.insert(ctx, r.db, `
		INSERT INTO explore_locations (name, address, category_slug, rating, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`,
		loc.Name, loc.Address, loc.CategorySlug, loc.Rating, loc.CreatedBy, loc.CreatedAt)
}

func (r *SQLRepository) DeleteLocation(ctx context.Context, id int64) error {
	return r.execOne(ctx, r.db, `DELETE FROM explore_locations WHERE id = ?`, id)
}
