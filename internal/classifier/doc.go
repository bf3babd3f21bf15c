// Package classifier maps form controls to semantic field types.
//
// Classification builds an identifier set from the control (id, name,
// placeholder, classes, label text, aria-label, and for widgets the label of
// the enclosing form item), normalizes it, and evaluates ordered pattern
// rules. The first matching rule wins; rule order resolves overlaps such as
// company names that contain surnames.
//
// The same machinery drives the numeric, date and job posting
// sub-taxonomies used by the widget writers and the value resolver.
package classifier
