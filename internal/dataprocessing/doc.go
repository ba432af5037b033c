// Package dataprocessing reads the KRX daily trend workbook into the
// trend domain model. The loader runs once at startup; any schema or
// parse failure is fatal because the dashboard cannot render without a
// complete table.
package dataprocessing
