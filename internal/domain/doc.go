// Package domain contains the core entities and business rules of the
// application. These types are independent of persistence, transport, and
// other infrastructure concerns; validation lives next to the data it
// protects.
package domain
