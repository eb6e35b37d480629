package redis

import (
	"github.com/redis/go-redis/v9"
)

// Client is the go-redis surface the stores use. It includes WATCH and
// pub/sub, which the match store relies on.
type Client interface {
	redis.UniversalClient
}
