// Package image1bit provides a 1-bit monochrome image format for SSD1306-class
// OLED controllers.
//
// The SSD1306 organises its display RAM in pages: each page is 8 pixel rows
// tall and every byte holds one column of 8 vertical pixels, least significant
// bit on top.
//
// Memory layout example for a 4×8 region (one page):
//
//	Column:  0     1     2     3
//	Byte:    0x01  0x80  0xFF  0x00
//	         (0x01 = only the top pixel lit)
//	         (0x80 = only the bottom pixel lit)
//	         (0xFF = the whole column lit)
//
// This package provides:
//
// - Bit: A color type representing a lit (On) or dark (Off) pixel
// - BitModel: A color model for converting standard Go colors to Bit
// - VerticalLSB: An image.Image implementation in the controller's native layout,
// with the fill, outline, invert and blit primitives the menu canvases need
//
// Example usage:
//
//	// Create a 128x64 image
//	img := image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 64))
//
//	// Light a pixel
//	img.SetBit(10, 20, image1bit.On)
//
//	// Highlight a row
//	img.InvertRect(image.Rect(0, 16, 64, 24))
//
//	// Use with standard Go image operations
//	draw.Draw(img, img.Bounds(), image.NewUniform(image1bit.On), image.Point{}, draw.Src)
package image1bit
