package simulation

// NumGames is the number of games a participant plays in one session.
const NumGames = 2

// Schedule maps a session-wide round number onto games and in-game rounds.
// Rounds and games are 1-based.
type Schedule struct {
	RoundsPerGame int
}

// TotalRounds is the session length in rounds.
func (s Schedule) TotalRounds() int {
	return NumGames * s.RoundsPerGame
}

// GameNumber returns which game the given session round belongs to.
func (s Schedule) GameNumber(round int) int {
	return (round-1)/s.RoundsPerGame + 1
}

// RoundInGame returns the round's position within its game.
func (s Schedule) RoundInGame(round int) int {
	return (round-1)%s.RoundsPerGame + 1
}

// GameRounds returns the session round numbers making up the game that
// contains the given round.
func (s Schedule) GameRounds(round int) []int {
	start := (s.GameNumber(round)-1)*s.RoundsPerGame + 1
	rounds := make([]int, s.RoundsPerGame)
	for i := range rounds {
		rounds[i] = start + i
	}
	return rounds
}

// IsDisruptionRound reports whether demand volatility shifts at this round.
// The disruption hits at the start of the second game.
func (s Schedule) IsDisruptionRound(round int) bool {
	return s.GameNumber(round) == 2 && s.RoundInGame(round) == 1
}
