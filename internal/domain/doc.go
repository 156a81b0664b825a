// Package domain contains shared domain types used across the aggregate
// sub-packages. Aggregates live in sub-packages (domain/lead, domain/account,
// domain/opportunity, ...). This root package holds sentinel errors,
// validation types, and the Action contract used by units of work.
package domain
