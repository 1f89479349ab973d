package main

import (
	"github.com/disgoorg/snowflake/v2"

	"github.com/harunoki/guildctl/model"
)

type txStats struct {
	Count    int
	Total    int64
	Average  float64
	TopUser  snowflake.ID
	TopCount int
}

// computeTxStats is a single pass over the ledger: volume, average and
// the member with the most entries.
func computeTxStats(txs []model.Transaction) txStats {
	stats := txStats{Count: len(txs)}
	if len(txs) == 0 {
		return stats
	}
	counts := make(map[snowflake.ID]int)
	for _, tx := range txs {
		stats.Total += tx.Amount
		counts[tx.UserID]++
		if counts[tx.UserID] > stats.TopCount {
			stats.TopCount = counts[tx.UserID]
			stats.TopUser = tx.UserID
		}
	}
	stats.Average = float64(stats.Total) / float64(len(txs))
	return stats
}
