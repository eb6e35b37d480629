package match

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"strings"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/not-enough-mana/internal/entities"
	"github.com/KirkDiggler/not-enough-mana/internal/errors"
	redisclient "github.com/KirkDiggler/not-enough-mana/internal/redis"
)

const scanBatch = 100

// AuditorConfig contains configuration for the store auditor
type AuditorConfig struct {
	Client redisclient.Client
}

// Validate validates the AuditorConfig
func (cfg *AuditorConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// Auditor finds and removes Redis match data the repository can no longer
// read: documents that fail to decode, join codes whose match is gone and
// active-set entries without a document.
type Auditor struct {
	client redisclient.Client
}

// NewAuditor creates an auditor over the match keyspace
func NewAuditor(cfg *AuditorConfig) (*Auditor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Auditor{client: cfg.Client}, nil
}

// AuditReport lists everything Scan found wrong
type AuditReport struct {
	Checked  int
	Corrupt  []string // match ids
	Orphaned []string // join codes
	Stale    []string // active-set ids
}

// Clean reports whether the scan found nothing to repair
func (r *AuditReport) Clean() bool {
	return len(r.Corrupt) == 0 && len(r.Orphaned) == 0 && len(r.Stale) == 0
}

// Scan walks the match keyspace. It only reads.
func (a *Auditor) Scan(ctx context.Context) (*AuditReport, error) {
	report := &AuditReport{}
	healthy := make(map[string]bool)
	codes := make(map[string]string)

	iter := a.client.Scan(ctx, 0, matchKeyPrefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		switch {
		case key == activeSetKey:
			continue
		case strings.HasPrefix(key, codeKeyPrefix):
			id, err := a.client.Get(ctx, key).Result()
			if err == redis.Nil {
				continue
			}
			if err != nil {
				return nil, errors.Wrapf(err, "failed to read %s", key)
			}
			codes[strings.TrimPrefix(key, codeKeyPrefix)] = id
			continue
		}

		id := strings.TrimPrefix(key, matchKeyPrefix)
		data, err := a.client.Get(ctx, key).Result()
		if err == redis.Nil {
			// expired mid-scan
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", key)
		}
		report.Checked++

		var m entities.Match
		if err := json.Unmarshal([]byte(data), &m); err != nil || m.ID != id || m.Version < 1 {
			report.Corrupt = append(report.Corrupt, id)
			continue
		}
		healthy[id] = true
	}
	if err := iter.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to scan match keys")
	}

	for code, id := range codes {
		if !healthy[id] {
			report.Orphaned = append(report.Orphaned, code)
		}
	}

	active, err := a.client.SMembers(ctx, activeSetKey).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list active matches")
	}
	for _, id := range active {
		if !healthy[id] {
			report.Stale = append(report.Stale, id)
		}
	}

	sort.Strings(report.Corrupt)
	sort.Strings(report.Orphaned)
	sort.Strings(report.Stale)
	return report, nil
}

// Repair deletes what report lists. Watchers of a corrupt match are told it
// was deleted.
func (a *Auditor) Repair(ctx context.Context, report *AuditReport) error {
	if report == nil {
		return errors.InvalidArgument("report is required")
	}
	if report.Clean() {
		return nil
	}

	pipe := a.client.TxPipeline()
	for _, id := range report.Corrupt {
		pipe.Del(ctx, matchKey(id))
		pipe.SRem(ctx, activeSetKey, id)
		pipe.Publish(ctx, updatesChannel(id), deletedMessage)
	}
	for _, code := range report.Orphaned {
		pipe.Del(ctx, codeKeyPrefix+code)
	}
	for _, id := range report.Stale {
		pipe.SRem(ctx, activeSetKey, id)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "failed to repair match keys")
	}

	slog.InfoContext(ctx, "match store repaired",
		"corrupt", len(report.Corrupt),
		"orphaned_codes", len(report.Orphaned),
		"stale_active", len(report.Stale))
	return nil
}
