package database

import (
	"errors"

	"gorm.io/gorm"
)

// Repository provides CRUD operations for persisted hosts and containers.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a Repository backed by the given database.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Transaction runs fn with a Repository bound to a single transaction.
func (r *Repository) Transaction(fn func(tx *Repository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

// Ping checks the underlying database connection.
func (r *Repository) Ping() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CreateHost inserts a new host record. Containers are not written.
func (r *Repository) CreateHost(h Host) error {
	return r.db.Omit("Containers").Create(&h).Error
}

// SaveHost creates or updates a host record. Containers are not written.
func (r *Repository) SaveHost(h Host) error {
	return r.db.Omit("Containers").Save(&h).Error
}

// FindHost returns a host by name, or nil if not found.
func (r *Repository) FindHost(name string, withContainers bool) (*Host, error) {
	q := r.db
	if withContainers {
		q = q.Preload("Containers", func(db *gorm.DB) *gorm.DB { return db.Order("name") })
	}

	var h Host
	if err := q.First(&h, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &h, nil
}

// FindHosts returns all hosts ordered by name.
func (r *Repository) FindHosts(withContainers bool) ([]Host, error) {
	q := r.db.Order("name")
	if withContainers {
		q = q.Preload("Containers", func(db *gorm.DB) *gorm.DB { return db.Order("name") })
	}

	var hosts []Host
	if err := q.Find(&hosts).Error; err != nil {
		return nil, err
	}
	return hosts, nil
}

// DeleteHost removes a host and all of its containers.
func (r *Repository) DeleteHost(name string) error {
	return r.Transaction(func(tx *Repository) error {
		if err := tx.db.Delete(&Container{}, "host_name = ?", name).Error; err != nil {
			return err
		}
		return tx.db.Delete(&Host{}, "name = ?", name).Error
	})
}

// CreateContainer inserts a new container record.
func (r *Repository) CreateContainer(c Container) error {
	return r.db.Create(&c).Error
}

// FindContainer returns a container on a host, or nil if not found.
func (r *Repository) FindContainer(host, name string) (*Container, error) {
	var c Container
	if err := r.db.First(&c, "host_name = ? AND name = ?", host, name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// UpdateContainer sets the given columns on a container. Zero values are
// written as-is.
func (r *Repository) UpdateContainer(host, name string, fields map[string]any) error {
	return r.db.Model(&Container{}).
		Where("host_name = ? AND name = ?", host, name).
		Updates(fields).Error
}

// DeleteContainer removes a container record.
func (r *Repository) DeleteContainer(host, name string) error {
	return r.db.Delete(&Container{}, "host_name = ? AND name = ?", host, name).Error
}
