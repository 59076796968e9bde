package sqlc

import (
	"context"
	"net"

	"github.com/sqlc-dev/pqtype"
)

// AnalyticsManager counts server activity per server address. A manager
// without queries records nothing.
type AnalyticsManager struct {
	queries  Querier
	serverIp pqtype.Inet
}

func NewAnalyticsManager(queries Querier, serverIpNet net.IPNet) *AnalyticsManager {
	return &AnalyticsManager{
		queries:  queries,
		serverIp: pqtype.Inet{IPNet: serverIpNet, Valid: serverIpNet.IP != nil},
	}
}

func (a *AnalyticsManager) ServerIp() pqtype.Inet {
	return a.serverIp
}

func (a *AnalyticsManager) record(ctx context.Context, increment func(context.Context, pqtype.Inet) error) error {
	ctx, cancel := context.WithTimeout(ctx, QuerierCtxTimeout)
	defer cancel()
	return increment(ctx, a.serverIp)
}

func (a *AnalyticsManager) IncrementGamesCreatedCount(ctx context.Context) error {
	if a.queries == nil {
		return nil
	}
	return a.record(ctx, a.queries.IncrementGamesCreatedCount)
}

func (a *AnalyticsManager) IncrementRematchCalledCount(ctx context.Context) error {
	if a.queries == nil {
		return nil
	}
	return a.record(ctx, a.queries.IncrementRematchCalledCount)
}

func (a *AnalyticsManager) IncrementMatchesFinishedCount(ctx context.Context) error {
	if a.queries == nil {
		return nil
	}
	return a.record(ctx, a.queries.IncrementMatchesFinishedCount)
}

func (a *AnalyticsManager) IncrementSurrenderCount(ctx context.Context) error {
	if a.queries == nil {
		return nil
	}
	return a.record(ctx, a.queries.IncrementSurrenderCount)
}

func (a *AnalyticsManager) GetGamesCreatedCount(ctx context.Context) (int64, error) {
	return a.queries.GetGamesCreatedCount(ctx, a.serverIp)
}

func (a *AnalyticsManager) GetRematchCalledCount(ctx context.Context) (int64, error) {
	return a.queries.GetRematchCalledCount(ctx, a.serverIp)
}

func (a *AnalyticsManager) GetMatchesFinishedCount(ctx context.Context) (int64, error) {
	return a.queries.GetMatchesFinishedCount(ctx, a.serverIp)
}

func (a *AnalyticsManager) GetSurrenderCount(ctx context.Context) (int64, error) {
	return a.queries.GetSurrenderCount(ctx, a.serverIp)
}
