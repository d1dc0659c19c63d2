package models

import (
	"database/sql/driver"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/inventory"
)

// UserModel is the persistence model for User
type UserModel struct {
	BaseModel
	Name   string `gorm:"type:varchar(200);not null"`
	Email  string `gorm:"type:varchar(320);not null"`
	Avatar string `gorm:"type:varchar(1024)"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User
func (m *UserModel) ToDomain() *inventory.User {
	return &inventory.User{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Email:      m.Email,
		Avatar:     m.Avatar,
	}
}

// FromDomain populates the persistence model from a domain User
func (m *UserModel) FromDomain(u *inventory.User) {
	m.FromDomainBaseEntity(u.BaseEntity)
	m.Name = u.Name
	m.Email = u.Email
	m.Avatar = u.Avatar
}

// CategoryModel is the persistence model for Category
type CategoryModel struct {
	BaseModel
	Name string `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category
func (m *CategoryModel) ToDomain() *inventory.Category {
	return &inventory.Category{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
	}
}

// FromDomain populates the persistence model from a domain Category
func (m *CategoryModel) FromDomain(c *inventory.Category) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
}

// DomainColumn stores an attribute's value domain as {"kind":...,"options":[...]}
type DomainColumn struct {
	inventory.ValueDomain
}

// Value implements driver.Valuer
func (c DomainColumn) Value() (driver.Value, error) {
	b, err := inventory.MarshalDomain(c.ValueDomain)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (c *DomainColumn) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("unsupported attribute domain column type")
	}
	d, err := inventory.UnmarshalDomain(raw)
	if err != nil {
		return err
	}
	c.ValueDomain = d
	return nil
}

// AttributeModel is the persistence model for Attribute
type AttributeModel struct {
	BaseModel
	Name   string       `gorm:"type:varchar(200);not null"`
	Color  string       `gorm:"type:varchar(32)"`
	Domain DomainColumn `gorm:"type:text;not null"`
}

// TableName returns the table name for GORM
func (AttributeModel) TableName() string {
	return "attributes"
}

// ToDomain converts the persistence model to a domain Attribute
func (m *AttributeModel) ToDomain() *inventory.Attribute {
	domain := m.Domain.ValueDomain
	if domain == nil {
		domain = inventory.TextDomain{}
	}
	return &inventory.Attribute{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Color:      m.Color,
		Domain:     domain,
	}
}

// FromDomain populates the persistence model from a domain Attribute
func (m *AttributeModel) FromDomain(a *inventory.Attribute) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Name = a.Name
	m.Color = a.Color
	m.Domain = DomainColumn{ValueDomain: a.Domain}
}

// ItemDefinitionModel is the persistence model for ItemDefinition.
// Name uniqueness among live rows is a partial index created by the migrations.
type ItemDefinitionModel struct {
	BaseModel
	Name                   string      `gorm:"type:varchar(200);not null;index"`
	CategoryID             *uuid.UUID  `gorm:"type:uuid;index"`
	AttributeIDs           []uuid.UUID `gorm:"column:attribute_ids;serializer:json"`
	Internal               bool        `gorm:"not null;default:false"`
	LowStockThreshold      int         `gorm:"not null;default:0"`
	CriticalStockThreshold int         `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ItemDefinitionModel) TableName() string {
	return "item_definitions"
}

// ToDomain converts the persistence model to a domain ItemDefinition
func (m *ItemDefinitionModel) ToDomain() *inventory.ItemDefinition {
	attrs := m.AttributeIDs
	if attrs == nil {
		attrs = []uuid.UUID{}
	}
	return &inventory.ItemDefinition{
		BaseEntity:             m.BaseModel.ToDomain(),
		Name:                   m.Name,
		CategoryID:             m.CategoryID,
		AttributeIDs:           attrs,
		Internal:               m.Internal,
		LowStockThreshold:      m.LowStockThreshold,
		CriticalStockThreshold: m.CriticalStockThreshold,
	}
}

// FromDomain populates the persistence model from a domain ItemDefinition
func (m *ItemDefinitionModel) FromDomain(d *inventory.ItemDefinition) {
	m.FromDomainBaseEntity(d.BaseEntity)
	m.Name = d.Name
	m.CategoryID = d.CategoryID
	m.AttributeIDs = d.AttributeIDs
	m.Internal = d.Internal
	m.LowStockThreshold = d.LowStockThreshold
	m.CriticalStockThreshold = d.CriticalStockThreshold
}

// AttributeValueModel is one stored {attributeId, value} pair
type AttributeValueModel struct {
	AttributeID uuid.UUID `json:"attributeId"`
	Value       string    `json:"value"`
}

// InventoryItemModel is the persistence model for InventoryItem
type InventoryItemModel struct {
	BaseModel
	ItemDefinitionID uuid.UUID             `gorm:"type:uuid;not null;index"`
	Quantity         int                   `gorm:"not null;default:0;check:quantity >= 0"`
	Attributes       []AttributeValueModel `gorm:"serializer:json"`
	AssigneeID       *uuid.UUID            `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (InventoryItemModel) TableName() string {
	return "inventory_items"
}

// ToDomain converts the persistence model to a domain InventoryItem
func (m *InventoryItemModel) ToDomain() *inventory.InventoryItem {
	attrs := make([]inventory.AttributeValue, 0, len(m.Attributes))
	for _, a := range m.Attributes {
		attrs = append(attrs, inventory.AttributeValue{AttributeID: a.AttributeID, Value: a.Value})
	}
	return &inventory.InventoryItem{
		BaseEntity:   m.BaseModel.ToDomain(),
		DefinitionID: m.ItemDefinitionID,
		Quantity:     m.Quantity,
		Attributes:   attrs,
		AssigneeID:   m.AssigneeID,
	}
}

// FromDomain populates the persistence model from a domain InventoryItem
func (m *InventoryItemModel) FromDomain(i *inventory.InventoryItem) {
	m.FromDomainBaseEntity(i.BaseEntity)
	m.ItemDefinitionID = i.DefinitionID
	m.Quantity = i.Quantity
	m.AssigneeID = i.AssigneeID
	m.Attributes = make([]AttributeValueModel, 0, len(i.Attributes))
	for _, a := range i.Attributes {
		m.Attributes = append(m.Attributes, AttributeValueModel{AttributeID: a.AttributeID, Value: a.Value})
	}
}

// LogEntryModel is the persistence model for LogEntry
type LogEntryModel struct {
	BaseModel
	StaffID       uuid.UUID `gorm:"type:uuid;not null;index"`
	ItemID        uuid.UUID `gorm:"type:uuid;not null;index"`
	QuantityDelta int       `gorm:"not null"`
	LoggedAt      time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (LogEntryModel) TableName() string {
	return "log_entries"
}

// ToDomain converts the persistence model to a domain LogEntry
func (m *LogEntryModel) ToDomain() *inventory.LogEntry {
	return &inventory.LogEntry{
		BaseEntity:    m.BaseModel.ToDomain(),
		StaffID:       m.StaffID,
		ItemID:        m.ItemID,
		QuantityDelta: m.QuantityDelta,
		Timestamp:     m.LoggedAt.UTC(),
	}
}

// FromDomain populates the persistence model from a domain LogEntry
func (m *LogEntryModel) FromDomain(l *inventory.LogEntry) {
	m.FromDomainBaseEntity(l.BaseEntity)
	m.StaffID = l.StaffID
	m.ItemID = l.ItemID
	m.QuantityDelta = l.QuantityDelta
	m.LoggedAt = l.Timestamp.UTC()
}

// All returns every model, in dependency order, for AutoMigrate
func All() []any {
	return []any{
		&UserModel{},
		&CategoryModel{},
		&AttributeModel{},
		&ItemDefinitionModel{},
		&InventoryItemModel{},
		&LogEntryModel{},
	}
}
