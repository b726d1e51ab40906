// Package tetris models the game board and the falling tetromino. It is
// pure state plus bit arithmetic; the tasks in package app decide when to
// call it and under which resources.
package tetris

const (
	// The board is 8 columns by 16 rows, one byte per row, one bit per
	// column, so collision and row checks reduce to byte operations.
	BoardColumns = 8
	BoardRows    = 16

	pieceTypes   = 7
	orientations = 4
	pieceWidth   = 4

	positionXCenter = (BoardColumns - pieceWidth) / 2
	positionYTop    = 0
	positionYBottom = BoardRows

	rowCompleted = 0xFF
	rowEmpty     = 0x00
)

// Falling speeds: application ticks between row advances.
const (
	SpeedDefault  = 250
	SpeedFast     = 50
	SpeedUltimate = 1
)

// pieces[type][orientation] is a 4x4 bitmap packed into two bytes, low
// nibble first from the leading row of the fall.
var pieces = [pieceTypes][orientations][2]uint8{
	{{0x00, 0x47}, {0x03, 0x22}, {0x00, 0x71}, {0x01, 0x13}},
	{{0x00, 0x63}, {0x01, 0x32}, {0x00, 0x63}, {0x01, 0x32}},
	{{0x00, 0x17}, {0x02, 0x23}, {0x00, 0x74}, {0x03, 0x11}},
	{{0x00, 0x36}, {0x02, 0x31}, {0x00, 0x36}, {0x02, 0x31}},
	{{0x00, 0x0F}, {0x11, 0x11}, {0x00, 0x0F}, {0x11, 0x11}},
	{{0x00, 0x33}, {0x00, 0x33}, {0x00, 0x33}, {0x00, 0x33}},
	{{0x00, 0x27}, {0x02, 0x32}, {0x00, 0x72}, {0x01, 0x31}},
}

// maxPosX bounds the x position per type and orientation, so a piece can
// neither stick out of the board nor rotate into the wall.
var maxPosX = [pieceTypes][orientations]uint8{
	{5, 6, 5, 6},
	{5, 6, 5, 6},
	{5, 6, 5, 6},
	{5, 6, 5, 6},
	{4, 7, 4, 7},
	{6, 6, 6, 6},
	{5, 6, 5, 6},
}

// Piece is the falling tetromino.
type Piece struct {
	Type        uint8
	Orientation uint8
	// Speed is the number of application ticks between row advances.
	Speed uint8
	X, Y  uint8
}

// Game holds the board, the falling piece and the score.
type Game struct {
	Board   [BoardRows]uint8
	Falling Piece
	Score   uint8

	rng uint32
}

// New seeds the piece generator and spawns the first piece.
func New(seed uint32) *Game {
	g := &Game{rng: seed | 1}
	g.Spawn()
	return g
}

func (g *Game) rand() uint32 {
	// xorshift32; good enough to deal pieces.
	x := g.rng
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	g.rng = x
	return x
}

// Spawn replaces the falling piece with a fresh one at the top center.
func (g *Game) Spawn() {
	g.Falling = Piece{
		Type:  uint8(g.rand() % pieceTypes),
		Speed: SpeedDefault,
		X:     positionXCenter,
		Y:     positionYTop,
	}
}

// Collides reports whether the piece overlaps settled squares or leaves
// the board. A piece enters the board row by row, so only rows at or above
// the leading edge are tested.
func (g *Game) Collides(p Piece) bool {
	if p.X > maxPosX[p.Type][p.Orientation] || p.Y > positionYBottom-1 {
		return true
	}
	bm := &pieces[p.Type][p.Orientation]

	hit := g.Board[p.Y] & ((bm[1] & 0x0F) << p.X)
	if p.Y > 0 {
		hit |= g.Board[p.Y-1] & ((bm[1] >> 4) << p.X)
	}
	if p.Y > 1 {
		hit |= g.Board[p.Y-2] & ((bm[0] & 0x0F) << p.X)
	}
	if p.Y > 2 {
		hit |= g.Board[p.Y-3] & ((bm[0] >> 4) << p.X)
	}
	return hit != 0
}

// Add settles the piece's visible rows onto the board.
func (g *Game) Add(p Piece) {
	bm := &pieces[p.Type][p.Orientation]

	g.Board[p.Y] |= (bm[1] & 0x0F) << p.X
	if p.Y > 0 {
		g.Board[p.Y-1] |= (bm[1] >> 4) << p.X
	}
	if p.Y > 1 {
		g.Board[p.Y-2] |= (bm[0] & 0x0F) << p.X
	}
	if p.Y > 2 {
		g.Board[p.Y-3] |= (bm[0] >> 4) << p.X
	}
}

// Remove lifts the piece's visible rows off the board, typically before
// testing a candidate move against the remaining squares.
func (g *Game) Remove(p Piece) {
	bm := &pieces[p.Type][p.Orientation]

	g.Board[p.Y] &^= (bm[1] & 0x0F) << p.X
	if p.Y > 0 {
		g.Board[p.Y-1] &^= (bm[1] >> 4) << p.X
	}
	if p.Y > 1 {
		g.Board[p.Y-2] &^= (bm[0] & 0x0F) << p.X
	}
	if p.Y > 2 {
		g.Board[p.Y-3] &^= (bm[0] >> 4) << p.X
	}
}

// SweepRows removes completed rows, pulling the stack down and bumping the
// score once per row. Returns the number of rows swept.
func (g *Game) SweepRows() int {
	swept := 0
	for row := 0; row < BoardRows; row++ {
		if g.Board[row] != rowCompleted {
			continue
		}
		swept++
		g.Score++
		for r := row; r > 0; r-- {
			g.Board[r] = g.Board[r-1]
			if g.Board[r-1] == rowEmpty {
				break
			}
		}
		g.Board[0] = rowEmpty
	}
	return swept
}

// Reset clears the board and score for a new game.
func (g *Game) Reset() {
	g.Board = [BoardRows]uint8{}
	g.Score = 0
}

// The move helpers assume the falling piece is lifted off the board.

// MoveTowardMax shifts the piece toward the high-x edge if bounds and
// collisions allow.
func (g *Game) MoveTowardMax() bool {
	if g.Falling.X >= maxPosX[g.Falling.Type][g.Falling.Orientation] {
		return false
	}
	cand := g.Falling
	cand.X++
	if g.Collides(cand) {
		return false
	}
	g.Falling = cand
	return true
}

// MoveTowardZero shifts the piece toward x = 0 if bounds and collisions
// allow.
func (g *Game) MoveTowardZero() bool {
	if g.Falling.X == 0 {
		return false
	}
	cand := g.Falling
	cand.X--
	if g.Collides(cand) {
		return false
	}
	g.Falling = cand
	return true
}

// Rotate cycles the orientation if the rotated piece fits.
func (g *Game) Rotate() bool {
	cand := g.Falling
	cand.Orientation = (cand.Orientation + 1) % orientations
	if g.Collides(cand) {
		return false
	}
	g.Falling = cand
	return true
}

// Accelerate steps the falling speed: normal, fast, then straight down.
func (g *Game) Accelerate() {
	switch g.Falling.Speed {
	case SpeedDefault:
		g.Falling.Speed = SpeedFast
	case SpeedFast:
		g.Falling.Speed = SpeedUltimate
	}
}
