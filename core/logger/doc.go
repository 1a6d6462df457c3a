// Package logger records what happens in an interpreter session as newline
// delimited JSON and summarizes those records into reports.
package logger
