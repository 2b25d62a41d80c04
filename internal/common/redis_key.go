package common

import "fmt"

func RedisKeyRecentWinners(limit int) string {
	return fmt.Sprintf("giveaway:recent_winners:%d", limit)
}
