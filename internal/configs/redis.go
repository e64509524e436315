package config

import (
	"log"

	"github.com/redis/rueidis"
)

// NewRedisClient builds the rueidis client backing the realtime event
// bridge. It is only called when Redis was explicitly configured, so a bad
// address is fatal at startup.
func NewRedisClient(addr string) rueidis.Client {
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress: []string{addr},
	})
	if err != nil {
		log.Fatalf("failed to create redis client: %v", err)
	}

	return client
}
