package health

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/commerce-backend/config"
	"github.com/dustin/commerce-backend/pkg/logger"
)

// FromConfig builds a registry with one checker for the database and one for
// each bound backend. Redis backed slots sharing a URL share one checker.
// root is the directory relative upload dirs are resolved against.
func FromConfig(ctx context.Context, cfg *config.Config, root string, log *logger.Logger) (*Registry, error) {
	reg := NewRegistry(log)
	reg.Register(NewDatabaseChecker(cfg.Project.DatabaseURL))

	fp, ok := cfg.FileProvider()
	if !ok {
		return nil, fmt.Errorf("no file provider bound")
	}
	fileChecker, err := fileCheckerFor(ctx, fp, root)
	if err != nil {
		return nil, err
	}
	reg.Register(fileChecker)

	groups, order := redisGroups(cfg)
	for _, u := range order {
		name := "redis"
		if len(order) > 1 {
			name = "redis:" + strings.Join(groups[u], "+")
		}
		reg.Register(NewRedisChecker(name, u))
	}

	return reg, nil
}

func fileCheckerFor(ctx context.Context, fp config.FileProvider, root string) (Checker, error) {
	switch opts := fp.Options.(type) {
	case config.MinioOptions:
		return NewMinioChecker(ctx, opts)
	case config.LocalOptions:
		return NewLocalDiskChecker(root, opts), nil
	case config.CloudinaryOptions:
		return NewCloudinaryChecker(opts), nil
	default:
		return nil, fmt.Errorf("unsupported file provider %q", fp.ID)
	}
}

// redisGroups maps each distinct redis URL to the slots using it, keeping
// the order in which URLs first appear.
func redisGroups(cfg *config.Config) (map[string][]string, []string) {
	groups := map[string][]string{}
	var order []string

	for _, m := range cfg.Modules {
		var u string
		switch opts := m.Options.(type) {
		case config.CacheOptions:
			u = opts.RedisURL
		case config.EventBusOptions:
			u = opts.RedisURL
		case config.WorkflowOptions:
			u = opts.Redis.URL
		default:
			continue
		}
		if _, seen := groups[u]; !seen {
			order = append(order, u)
		}
		groups[u] = append(groups[u], string(m.Key))
	}
	return groups, order
}
