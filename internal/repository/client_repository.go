package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/jcastellanos/prestamos-api/internal/models"
)

// ClientRepository defines the interface for client data access
type ClientRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Client, error)
	FindByIdentity(ctx context.Context, identity string) (*models.Client, error)
	Create(ctx context.Context, client *models.Client) error
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Client, int64, error)
	FindAll(ctx context.Context) ([]models.Client, error)
	CountLoans(ctx context.Context, clientID uint) (int64, error)
}

type clientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) FindByID(ctx context.Context, id uint) (*models.Client, error) {
	var client models.Client
	err := r.db.WithContext(ctx).First(&client, id).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) FindByIdentity(ctx context.Context, identity string) (*models.Client, error) {
	var client models.Client
	err := r.db.WithContext(ctx).
		Where("identity = ?", identity).
		First(&client).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) Create(ctx context.Context, client *models.Client) error {
	if err := r.db.WithContext(ctx).Create(client).Error; err != nil {
		if isDuplicateKeyError(err, "idx_clients_identity") {
			return fmt.Errorf("%w: documento de identidad ya registrado", gorm.ErrDuplicatedKey)
		}
		return err
	}
	return nil
}

func (r *clientRepository) Update(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

func (r *clientRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Client{}, id).Error
}

func (r *clientRepository) List(ctx context.Context, query *ListQuery) ([]models.Client, int64, error) {
	var clients []models.Client
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Client{})

	// Apply search
	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("name ILIKE ? OR identity ILIKE ? OR phone ILIKE ?",
			search, search, search)
	}

	// Count total using a separate session so the main query is not altered by Count()
	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Apply sorting
	if query.SortBy != "" {
		order := query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("name ASC")
	}

	// Apply pagination
	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Preload("Loans").Find(&clients).Error
	return clients, total, err
}

func (r *clientRepository) FindAll(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	err := r.db.WithContext(ctx).Order("name ASC").Find(&clients).Error
	return clients, err
}

func (r *clientRepository) CountLoans(ctx context.Context, clientID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("client_id = ?", clientID).
		Count(&count).Error
	return count, err
}
