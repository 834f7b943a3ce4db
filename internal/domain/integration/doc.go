// Package integration contains the marketplace integration bounded context.
//
// Key concepts:
//   - EbayOrder: value object holding one order as returned by the eBay Trading API
//   - TransactionList: the order's line items, normalised from either the
//     single-object or the array shape the API produces
//   - TradingAPI: port for the eBay Trading API calls the importer needs
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (implementations) are in the infrastructure layer
package integration
