// Package services provides domain services that operate across multiple
// domain entities of the fulfillment system. It implements logic that doesn't
// naturally belong to a single aggregate root.
//
// The package includes:
//   - ScanLookupBuilder: derives the barcode projection handheld scanners use
//     for local validation, from the order's active pick and pack tasks
//
// Domain services are stateless; they are constructed with NewX and hold no
// dependencies, following Domain-Driven Design principles.
package services
