package persistence

import (
	"context"
	"errors"

	"github.com/erp/sale-ebay/internal/domain/channel"
	"github.com/erp/sale-ebay/internal/infrastructure/event"
	"github.com/erp/sale-ebay/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormChannelRepository implements channel.Repository using GORM
type GormChannelRepository struct {
	db *gorm.DB
}

// NewGormChannelRepository creates a new GormChannelRepository
func NewGormChannelRepository(db *gorm.DB) *GormChannelRepository {
	return &GormChannelRepository{db: db}
}

// FindByID finds a channel by its ID
func (r *GormChannelRepository) FindByID(ctx context.Context, id uuid.UUID) (*channel.Channel, error) {
	var model models.ChannelModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, channel.ErrChannelNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a channel by its unique code
func (r *GormChannelRepository) FindByCode(ctx context.Context, code string) (*channel.Channel, error) {
	var model models.ChannelModel
	if err := r.db.WithContext(ctx).First(&model, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, channel.ErrChannelNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists every channel by name
func (r *GormChannelRepository) FindAll(ctx context.Context) ([]channel.Channel, error) {
	var rows []models.ChannelModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	channels := make([]channel.Channel, len(rows))
	for i := range rows {
		channels[i] = *rows[i].ToDomain()
	}
	return channels, nil
}

// Save creates or updates a channel
func (r *GormChannelRepository) Save(ctx context.Context, ch *channel.Channel) error {
	var model models.ChannelModel
	model.FromDomain(ch)
	return r.db.WithContext(ctx).Save(&model).Error
}

// GormChannelExceptionRepository implements channel.ExceptionRepository using GORM
type GormChannelExceptionRepository struct {
	db     *gorm.DB
	outbox *event.OutboxPublisher
}

// NewGormChannelExceptionRepository creates a new GormChannelExceptionRepository
func NewGormChannelExceptionRepository(db *gorm.DB) *GormChannelExceptionRepository {
	return &GormChannelExceptionRepository{db: db, outbox: defaultOutbox}
}

// FindByID finds an exception by its ID
func (r *GormChannelExceptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*channel.Exception, error) {
	var model models.ChannelExceptionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, channel.ErrExceptionNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOrigin lists the exceptions raised against origin
func (r *GormChannelExceptionRepository) FindByOrigin(ctx context.Context, origin string) ([]channel.Exception, error) {
	return r.find(r.db.WithContext(ctx).Where("origin = ?", origin))
}

// FindByChannel lists the exceptions of a channel. A nil resolved
// returns both open and resolved exceptions.
func (r *GormChannelExceptionRepository) FindByChannel(ctx context.Context, channelID uuid.UUID, resolved *bool) ([]channel.Exception, error) {
	query := r.db.WithContext(ctx).Where("channel_id = ?", channelID)
	if resolved != nil {
		query = query.Where("is_resolved = ?", *resolved)
	}
	return r.find(query)
}

// Save creates or updates an exception and stores its pending events
func (r *GormChannelExceptionRepository) Save(ctx context.Context, e *channel.Exception) error {
	var model models.ChannelExceptionModel
	model.FromDomain(e)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&model).Error; err != nil {
			return err
		}
		return r.outbox.PublishPending(ctx, tx, e)
	})
}

func (r *GormChannelExceptionRepository) find(query *gorm.DB) ([]channel.Exception, error) {
	var rows []models.ChannelExceptionModel
	if err := query.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	exceptions := make([]channel.Exception, len(rows))
	for i := range rows {
		exceptions[i] = *rows[i].ToDomain()
	}
	return exceptions, nil
}

var (
	_ channel.Repository          = (*GormChannelRepository)(nil)
	_ channel.ExceptionRepository = (*GormChannelExceptionRepository)(nil)
)
