// Package table turns a raw fixed-width process listing into the text shown
// to the user and maps selected lines back to process ids.
//
// A listing is split into three regions: a fixed header, a sortable body and
// a fixed footer. Fields are never parsed into structs; they are addressed by
// the character ranges of a models.Schema.
package table
