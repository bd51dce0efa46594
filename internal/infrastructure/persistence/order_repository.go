package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/retailportal/backend/internal/domain/ordering"
	"github.com/retailportal/backend/internal/domain/shared"
	"github.com/retailportal/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements ordering.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create persists the order, its lines and an ORDER_CREATED event in one
// transaction. A duplicate external reference surfaces as
// shared.ErrAlreadyExists via the unique index on orders.external_ref.
func (r *GormOrderRepository) Create(ctx context.Context, order *ordering.Order) error {
	var model models.OrderModel
	model.FromDomain(order)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&model).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return shared.ErrAlreadyExists
			}
			return err
		}
		return appendEventTx(tx, order.ID, ordering.EventOrderCreated, nil)
	})
}

// FindByID finds an order by its ID with lines, mapping and no events
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("ErpMap").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByExternalRef finds an order by its external reference
func (r *GormOrderRepository) FindByExternalRef(ctx context.Context, externalRef string) (*ordering.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("ErpMap").
		Where("external_ref = ?", externalRef).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByErpOrderID finds an order through its ERP mapping
func (r *GormOrderRepository) FindByErpOrderID(ctx context.Context, erpOrderID string) (*ordering.Order, error) {
	var mapping models.ErpOrderMapModel
	if err := r.db.WithContext(ctx).
		Where("erp_order_id = ?", erpOrderID).
		First(&mapping).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.FindByID(ctx, mapping.OrderID)
}

// FindForRetailer lists a retailer's orders newest first, with the total
// count before pagination
func (r *GormOrderRepository) FindForRetailer(ctx context.Context, retailerID uuid.UUID, filter ordering.ListFilter) ([]ordering.Order, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("retailer_id = ?", retailerID)
	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var rows []models.OrderModel
	if err := query.
		Preload("Lines").
		Preload("ErpMap").
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]ordering.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, total, nil
}

// FindSyncCandidates returns orders whose ERP-side progress should be
// polled: non-terminal pushed orders that still have a mapping.
func (r *GormOrderRepository) FindSyncCandidates(ctx context.Context) ([]ordering.Order, error) {
	var rows []models.OrderModel
	if err := r.db.WithContext(ctx).
		Joins("JOIN erp_order_maps ON erp_order_maps.order_id = orders.id").
		Where("orders.status IN ?", []string{
			ordering.OrderStatusCreatedInERP.String(),
			ordering.OrderStatusProcessing.String(),
		}).
		Preload("Lines").
		Preload("ErpMap").
		Order("orders.created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	orders := make([]ordering.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, nil
}

// MarkSynced records a successful push: status CREATED_IN_LINNWORKS, the
// ERP mapping and a LINNWORKS_SUCCESS event, all in one transaction. A
// second mapping for the same order surfaces as shared.ErrAlreadyExists.
func (r *GormOrderRepository) MarkSynced(ctx context.Context, orderID uuid.UUID, erpOrderID string, payload []byte) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateStatusTx(tx, orderID, ordering.OrderStatusCreatedInERP); err != nil {
			return err
		}

		mapping := models.ErpOrderMapModel{
			ID:         uuid.New(),
			OrderID:    orderID,
			ErpOrderID: erpOrderID,
			CreatedAt:  time.Now(),
		}
		if err := tx.Create(&mapping).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return shared.ErrAlreadyExists
			}
			return err
		}

		return appendEventTx(tx, orderID, ordering.EventERPSuccess, payload)
	})
}

// MarkSyncFailed records a failed push: status FAILED plus a
// LINNWORKS_FAILURE event, in one transaction
func (r *GormOrderRepository) MarkSyncFailed(ctx context.Context, orderID uuid.UUID, payload []byte) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateStatusTx(tx, orderID, ordering.OrderStatusFailed); err != nil {
			return err
		}
		return appendEventTx(tx, orderID, ordering.EventERPFailure, payload)
	})
}

// UpdateStatus transitions the order and appends the paired event entry in
// one transaction
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, orderID uuid.UUID, newStatus ordering.OrderStatus, kind ordering.EventKind, payload []byte) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateStatusTx(tx, orderID, newStatus); err != nil {
			return err
		}
		return appendEventTx(tx, orderID, kind, payload)
	})
}

// AppendEvent adds a single audit entry outside any status change
func (r *GormOrderRepository) AppendEvent(ctx context.Context, orderID uuid.UUID, kind ordering.EventKind, payload []byte) error {
	return appendEventTx(r.db.WithContext(ctx), orderID, kind, payload)
}

// ListEvents returns the order's event log ordered by creation time
func (r *GormOrderRepository) ListEvents(ctx context.Context, orderID uuid.UUID) ([]ordering.OrderEvent, error) {
	var rows []models.OrderEventModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	events := make([]ordering.OrderEvent, len(rows))
	for i := range rows {
		events[i] = rows[i].ToDomain()
	}
	return events, nil
}

func updateStatusTx(tx *gorm.DB, orderID uuid.UUID, status ordering.OrderStatus) error {
	result := tx.Model(&models.OrderModel{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"status":     status.String(),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func appendEventTx(tx *gorm.DB, orderID uuid.UUID, kind ordering.EventKind, payload []byte) error {
	event := models.OrderEventModel{
		ID:        uuid.New(),
		OrderID:   orderID,
		Kind:      string(kind),
		Payload:   payload,
		CreatedAt: time.Now(),
	}
	return tx.Create(&event).Error
}

// Ensure GormOrderRepository implements OrderRepository
var _ ordering.OrderRepository = (*GormOrderRepository)(nil)
