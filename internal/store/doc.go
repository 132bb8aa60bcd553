// Package store declares the persistence interfaces for users, tasks,
// categories and notifications, the errors they return, and a small
// transaction helper shared by the implementations.
package store
