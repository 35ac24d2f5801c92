// Package fleet holds the fleet dashboard's records and the table
// configurations of its vehicle views.
package fleet
