// Package viz holds the pure drawing primitives shared by every surface:
//
//   - [Color]: 8-bit RGB with #rrggbb serialization
//   - [Palette]: cyclic anchor palette indexed by iteration
//   - [Graph]: affine simulation-to-pixel mapping
//   - [Canvas]: Braille-based pixel canvas for terminal rendering
package viz
