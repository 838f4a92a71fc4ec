// Package imagery reports the images referenced by an event list.
//
// Images are not copied here. Each reference is logged on its own line as the
// sentinel "🖼" immediately followed by the image path, with no space, so a
// shell step can pick the lines out of the log and copy the files next to the
// destination page.
package imagery
