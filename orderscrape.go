// Package orderscrape signs in to an orders portal, extracts the orders
// table from the returned HTML and exports it as CSV, XLSX, JSON and a
// SQLite table.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, excelize/).
package orderscrape
