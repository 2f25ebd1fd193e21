// Package model defines shared data types used across the Ameritrade Data Platform.
//
// Conventions:
//   - Prices: float64 dollars, as quoted by the vendor
//   - Timestamps: int64 microseconds since Unix epoch
//   - IDs: string for symbols, int64 for vendor order/transaction IDs,
//     uuid.UUID for collector poll cycles
package model
