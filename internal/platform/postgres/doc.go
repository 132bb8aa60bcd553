// Package postgres implements the store interfaces and the job store on
// PostgreSQL through database/sql with the pgx driver.
//
// Every query is scoped the way the service expects: lookups and writes that
// take an owner ID add it to the WHERE clause, so rows owned by someone else
// behave as missing. Driver errors are translated by MapError before they
// leave the package. The schema lives in the embedded goose migrations.
package postgres
