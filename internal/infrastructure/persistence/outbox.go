package persistence

import "github.com/erp/sale-ebay/internal/infrastructure/event"

// defaultOutbox stores the events of saved sales and channel exceptions
var defaultOutbox = event.NewOutboxPublisher(event.NewDomainEventSerializer())
