package memory

import "errors"

// ErrItemsReferenceOrder mirrors the foreign key that forbids deleting an order with items.
var ErrItemsReferenceOrder = errors.New("order still referenced by items")
