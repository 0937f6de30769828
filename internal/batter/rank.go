package batter

import "sort"

// Rank sorts players by moving average, highest first. Players with equal
// averages keep their relative order.
func Rank(players []*Player) {
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].MovingAverage() > players[j].MovingAverage()
	})
}
