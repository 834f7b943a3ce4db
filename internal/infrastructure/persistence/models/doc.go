// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns.
//
// Structure:
//   - base.go: base persistence models (BaseModel, AggregateModel, ChannelAggregateModel)
//   - sale.go: sales and sale lines
//   - partner.go: parties, contact mechanisms and addresses
//   - catalog.go: products and units of measure
//   - currency.go: currencies
//   - channel.go: sales channels and channel exceptions
//   - outbox.go: domain events awaiting dispatch
package models

// All returns one value of every model, in dependency order, for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&CurrencyModel{},
		&UomModel{},
		&ChannelModel{},
		&PartyModel{},
		&ContactMechanismModel{},
		&AddressModel{},
		&ProductModel{},
		&SaleModel{},
		&SaleLineModel{},
		&ChannelExceptionModel{},
		&OutboxEntryModel{},
	}
}
