package services

import (
	"context"

	"github.com/jcastellanos/prestamos-api/internal/models"
	"github.com/jcastellanos/prestamos-api/internal/repository"
)

// AnalyticsService serves the portfolio dashboard figures
type AnalyticsService struct {
	analyticsRepo repository.AnalyticsRepository
}

func NewAnalyticsService(analyticsRepo repository.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{analyticsRepo: analyticsRepo}
}

// GetOverview returns the headline portfolio figures
func (s *AnalyticsService) GetOverview(ctx context.Context) (*models.PortfolioOverview, error) {
	return s.analyticsRepo.GetOverview(ctx)
}

// GetStatusDistribution returns loan counts and amounts per status
func (s *AnalyticsService) GetStatusDistribution(ctx context.Context) ([]models.StatusSlice, error) {
	return s.analyticsRepo.GetStatusDistribution(ctx)
}

// GetTopClients returns the clients ranked by total borrowed amount
func (s *AnalyticsService) GetTopClients(ctx context.Context, limit int) ([]models.TopClient, error) {
	return s.analyticsRepo.GetTopClients(ctx, limit)
}

// GetMonthlyTrends returns loan issuance and collection activity per month
func (s *AnalyticsService) GetMonthlyTrends(ctx context.Context, months int) ([]models.MonthlyTrend, error) {
	return s.analyticsRepo.GetMonthlyTrends(ctx, months)
}
