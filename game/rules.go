package game

// lines holds every run of Goal cells that wins, computed once.
var lines = buildLines()

func buildLines() [][Goal]Move {
	dirs := [][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}
	var out [][Goal]Move
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			for _, d := range dirs {
				endRow := row + d[0]*(Goal-1)
				endCol := col + d[1]*(Goal-1)
				if endRow < 0 || endRow >= BoardSize || endCol < 0 || endCol >= BoardSize {
					continue
				}
				var line [Goal]Move
				for k := 0; k < Goal; k++ {
					line[k] = Move((row+d[0]*k)*BoardSize + col + d[1]*k)
				}
				out = append(out, line)
			}
		}
	}
	return out
}

// LegalMoves appends the empty cells of b to buf in ascending order and
// returns the extended slice. A finished game has no legal moves.
func LegalMoves(b *Board, buf []Move) []Move {
	if Terminal(b) != None {
		return buf
	}
	return EmptyCells(b, buf)
}

// EmptyCells is LegalMoves without the check for a finished game.
func EmptyCells(b *Board, buf []Move) []Move {
	for i, c := range b {
		if c == Empty {
			buf = append(buf, Move(i))
		}
	}
	return buf
}

// Terminal reports whether the game on b is over and how.
func Terminal(b *Board) Result {
	for _, line := range lines {
		c := b[line[0]]
		if c == Empty {
			continue
		}
		won := true
		for _, m := range line[1:] {
			if b[m] != c {
				won = false
				break
			}
		}
		if won {
			if c == X {
				return WinX
			}
			return WinO
		}
	}
	for _, c := range b {
		if c == Empty {
			return None
		}
	}
	return Draw
}
