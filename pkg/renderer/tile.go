package renderer

// Tile is a rectangular region of the image, half-open on X1 and Y1.
// Tiles never overlap, so workers write to the framebuffer without locks.
type Tile struct {
	Index  int
	X0, Y0 int
	X1, Y1 int
}

// Width returns the tile width in pixels
func (t Tile) Width() int {
	return t.X1 - t.X0
}

// Height returns the tile height in pixels
func (t Tile) Height() int {
	return t.Y1 - t.Y0
}

// Pixels returns the number of pixels in the tile
func (t Tile) Pixels() int {
	return t.Width() * t.Height()
}

// GenerateTiles splits the image into a grid of tiles in row-major order.
// Edge tiles are clipped to the image bounds.
func GenerateTiles(width, height, tileSize int) []Tile {
	var tiles []Tile
	index := 0
	for y := 0; y < height; y += tileSize {
		for x := 0; x < width; x += tileSize {
			tile := Tile{
				Index: index,
				X0:    x,
				Y0:    y,
				X1:    min(x+tileSize, width),
				Y1:    min(y+tileSize, height),
			}
			tiles = append(tiles, tile)
			index++
		}
	}
	return tiles
}
