// Package trend holds the daily market trend domain model: the immutable
// Table loaded from the KRX workbook, date range resolution against the
// table's bounds, and derivation of the raw and cumulative chart views.
//
// Everything in this package is a pure function over immutable input, so
// concurrent calls from multiple request handlers are safe without locking.
package trend
