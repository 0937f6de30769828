// Package notifier defines the Publisher interface that every output of a run
// implements, plus the dry-run and Twitter publishers.
//
// The pipeline hands the ranked players to each configured Publisher in
// order. The CMS client, the Redis cache and the SQLite history store are
// Publishers too; this package holds the ones that announce the leaderboard.
package notifier
