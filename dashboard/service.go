package dashboard

import (
	"context"
	"strconv"

	"github.com/jrsteele09/go-gym-console/transport"
	"github.com/jrsteele09/go-gym-console/viewstate"
	"github.com/pkg/errors"
)

// Service exposes the dashboard aggregate reads. All operations are
// read-only; the stats entry is refreshed whenever attendance or member
// writes invalidate the dashboard-stats kind.
type Service struct {
	api   *transport.Client
	cache *viewstate.Cache
}

func NewService(api *transport.Client, cache *viewstate.Cache) (*Service, error) {
	if api == nil {
		return nil, errors.New("[dashboard.NewService] transport is required")
	}
	if cache == nil {
		return nil, errors.New("[dashboard.NewService] cache is required")
	}
	return &Service{api: api, cache: cache}, nil
}

// Stats returns the dashboard landing aggregate, served from cache when
// fresh.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	query := viewstate.NewQuery(viewstate.KindDashboardStats, nil)
	return viewstate.Read(ctx, s.cache, query, func(ctx context.Context) (Stats, error) {
		var stats Stats
		if err := s.api.Get(ctx, "/dashboard/stats", nil, &stats); err != nil {
			return Stats{}, err
		}
		return stats, nil
	})
}

// Revenue returns the revenue breakdown for a period (day, week, month or
// year).
func (s *Service) Revenue(ctx context.Context, period string) (*RevenueData, error) {
	var revenue RevenueData
	if err := s.api.Get(ctx, "/dashboard/revenue", transport.Query(map[string]string{"period": period}), &revenue); err != nil {
		return nil, err
	}
	return &revenue, nil
}

// AttendanceTrends returns daily counts and peak hours over the last days.
func (s *Service) AttendanceTrends(ctx context.Context, days int) (*Trends, error) {
	params := map[string]string{}
	if days > 0 {
		params["days"] = strconv.Itoa(days)
	}
	var trends Trends
	if err := s.api.Get(ctx, "/dashboard/attendance-trends", transport.Query(params), &trends); err != nil {
		return nil, err
	}
	return &trends, nil
}
