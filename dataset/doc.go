// Package dataset loads the CSV/TSV sample files the classifier trains and
// tests against, and draws stratified percentage splits from their class
// labels.
package dataset
