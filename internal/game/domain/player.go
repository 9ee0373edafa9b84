package domain

import "math/rand"

// Player is a room member. Finished is meaningful only in versus mode: it is
// set once the player's private board matches the solution everywhere.
type Player struct {
	ID       string
	Name     string
	Color    string
	Score    int
	Finished bool
}

// Award adds points to the player's score.
func (p *Player) Award(points int) {
	p.Score += points
}

// Penalize subtracts points from the player's score, flooring at zero.
func (p *Player) Penalize(points int) {
	p.Score -= points
	if p.Score < 0 {
		p.Score = 0
	}
}

// displayColors is the palette players are assigned from.
var displayColors = [...]string{"#ef4444", "#3b82f6", "#10b981", "#f59e0b", "#8b5cf6", "#ec4899"}

// RandomColor picks a display color from the palette.
func RandomColor(rng *rand.Rand) string {
	return displayColors[rng.Intn(len(displayColors))]
}
