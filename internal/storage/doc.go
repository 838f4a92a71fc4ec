// Package storage reads, splices and writes the destination HTML document.
//
// The destination page marks where events belong with ul#eventList. The
// rewritten Meetup list replaces that element wholesale and takes over its id,
// so the next run finds it again. Documents are written back pretty-printed
// in UTF-8. The write truncates the file in place; it is not atomic.
package storage
