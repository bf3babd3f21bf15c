// Package writer sets values on native controls and drives component-library
// widgets through the same event sequences a user would produce.
//
// Writers never return errors. Every call yields an Outcome; widget writers
// that must wait for the page to react report StatusDeferred and deliver the
// final result later through a Settle callback, scheduled on the pass
// scheduler so that a newer pass can cancel it.
package writer
