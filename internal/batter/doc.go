// Package batter provides the data model for tracked MLB batters.
//
// A Player aggregates its most recent GameRecords into a moving average, which
// here is the mean number of hits per game (not hits divided by at-bats). The
// package also holds the team directory entry type, the playing-team filter and
// the ranking used before a dataset is published.
package batter
