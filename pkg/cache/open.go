package cache

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// DefaultMongoDatabase is used when a MongoDB URL names no database.
const DefaultMongoDatabase = "asciiwipe"

// Open returns the backend described by target:
//
//	""                      NullCache
//	"none"                  NullCache
//	"redis://host:6379/0"   RedisCache (also rediss://)
//	"mongodb://host/db"     MongoCache (also mongodb+srv://)
//	"file:///path" or path  FileCache
func Open(ctx context.Context, target string) (Cache, error) {
	switch {
	case target == "" || target == "none":
		return NewNullCache(), nil
	case strings.HasPrefix(target, "redis://"), strings.HasPrefix(target, "rediss://"):
		c, err := NewRedisCache(ctx, target)
		if err != nil {
			return nil, err
		}
		return c, nil
	case strings.HasPrefix(target, "mongodb://"), strings.HasPrefix(target, "mongodb+srv://"):
		u, err := url.Parse(target)
		if err != nil {
			return nil, fmt.Errorf("parse mongo url: %w", err)
		}
		db := strings.Trim(u.Path, "/")
		if db == "" {
			db = DefaultMongoDatabase
		}
		c, err := NewMongoCache(ctx, target, db)
		if err != nil {
			return nil, err
		}
		return c, nil
	case strings.HasPrefix(target, "file://"):
		target = strings.TrimPrefix(target, "file://")
	case strings.Contains(target, "://"):
		return nil, fmt.Errorf("unsupported cache backend: %s", target)
	}
	c, err := NewFileCache(target)
	if err != nil {
		return nil, err
	}
	return c, nil
}
