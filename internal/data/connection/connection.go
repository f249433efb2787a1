package connection

import (
	"context"
	"errors"
	"sync"

	"ignitrack/internal/data/config"

	"github.com/redis/go-redis/v9"
)

// Connections holds the optional data-layer clients. A section missing from
// configuration leaves the matching client nil; callers must nil-check.
type Connections struct {
	Graph  *GraphClient
	Cache  *redis.Client
	closed bool
	mu     sync.Mutex
}

// New creates new Connections from configuration
func New(cfg *config.Config) (*Connections, error) {
	c := &Connections{}
	if cfg == nil {
		return c, nil
	}

	var err error

	if cfg.Neo4j != nil && cfg.Neo4j.URI != "" {
		c.Graph, err = newNeo4j(cfg.Neo4j)
		if err != nil {
			return nil, err
		}
	}

	if cfg.Redis != nil && cfg.Redis.Addr != "" {
		c.Cache, err = newRedis(cfg.Redis)
		if err != nil {
			return nil, err
		}
	}

	return c, nil
}

// GraphConnected reports whether the graph collaborator is reachable
func (c *Connections) GraphConnected(ctx context.Context) bool {
	if c == nil || c.Graph == nil {
		return false
	}
	return c.Graph.VerifyConnectivity(ctx) == nil
}

// CacheConnected reports whether the cache collaborator is reachable
func (c *Connections) CacheConnected(ctx context.Context) bool {
	if c == nil || c.Cache == nil {
		return false
	}
	return c.Cache.Ping(ctx).Err() == nil
}

// Close closes all data connections
func (c *Connections) Close() (errs []error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			errs = append(errs, errors.New("redis close error: "+err.Error()))
		}
		c.Cache = nil
	}

	if c.Graph != nil {
		if err := c.Graph.Close(context.Background()); err != nil {
			errs = append(errs, errors.New("neo4j close error: "+err.Error()))
		}
		c.Graph = nil
	}

	c.closed = true

	return errs
}
