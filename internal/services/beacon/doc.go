// Package beacon queries the Beacon catalog GraphQL API for content
// metadata, series listings, and collection lookups. The API requires
// literal values inside where clauses, so every interpolated slug is
// validated before a query is built. An HTML page scrape backs up the
// API when a collection lookup comes back empty.
package beacon
