// Package dataset holds the pure rules of the navigator document: turning
// imported rows into records, merging them by key, validating a whole
// document, mapping pointer positions onto floor maps and filtering the
// daily schedule. Nothing here touches storage or shared state.
package dataset
