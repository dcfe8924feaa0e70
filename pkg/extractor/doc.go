// Package extractor walks a design page and inventories the component sets and
// standalone components an icon export works on, then forms the icon groups
// from them.
package extractor
