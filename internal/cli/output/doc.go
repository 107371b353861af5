// Package output renders command results for the shardtab CLI.
//
// Results go to stdout through a Formatter chosen by --output (table, json
// or yaml). Progress indicators write to stderr so that machine readable
// output stays clean.
package output
