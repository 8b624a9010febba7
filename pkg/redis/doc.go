// Package redis connects to Redis with go-redis/v9 and exposes a readiness
// check. The identity package stores session snapshots and login states in it.
package redis
