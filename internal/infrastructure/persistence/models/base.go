package models

import (
	"time"

	"github.com/erp/sale-ebay/internal/domain/shared"
	"github.com/google/uuid"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// AggregateModel provides common persistence fields for aggregate roots.
// It extends BaseModel with version for optimistic locking.
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// FromDomainAggregateRoot populates AggregateModel from domain BaseAggregateRoot
func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Version = a.Version
}

// ToAggregateRoot rebuilds the domain BaseAggregateRoot
func (m *AggregateModel) ToAggregateRoot() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{
		BaseEntity: m.BaseModel.ToDomain(),
		Version:    m.Version,
	}
}

// ChannelAggregateModel provides common persistence fields for aggregate
// roots owned by a sales channel.
type ChannelAggregateModel struct {
	AggregateModel
	ChannelID uuid.UUID `gorm:"type:uuid;index"`
}

// FromDomainChannelAggregateRoot populates ChannelAggregateModel from domain ChannelAggregateRoot
func (m *ChannelAggregateModel) FromDomainChannelAggregateRoot(c shared.ChannelAggregateRoot) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.ChannelID = c.ChannelID
}

// ToChannelAggregateRoot rebuilds the domain ChannelAggregateRoot
func (m *ChannelAggregateModel) ToChannelAggregateRoot() shared.ChannelAggregateRoot {
	return shared.ChannelAggregateRoot{
		BaseAggregateRoot: m.ToAggregateRoot(),
		ChannelID:         m.ChannelID,
	}
}
