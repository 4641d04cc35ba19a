package entity

// ScoreTally is the running score of one session.
type ScoreTally struct {
	XWins int `json:"x"`
	OWins int `json:"o"`
	Draws int `json:"draw"`
}

// Record counts a finished game. WinnerNone is ignored.
func (that *ScoreTally) Record(winner Winner) {
	switch winner {
	case WinnerX:
		that.XWins++
	case WinnerO:
		that.OWins++
	case WinnerDraw:
		that.Draws++
	case WinnerNone:
	}
}

func (that *ScoreTally) Total() int {
	return that.XWins + that.OWins + that.Draws
}
