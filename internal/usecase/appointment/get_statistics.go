package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/barber-dashboard/internal/domain/appointment"
)

type GetStatistics struct {
	repo domain.Repository
}

func NewGetStatistics(repo domain.Repository) *GetStatistics {
	return &GetStatistics{repo: repo}
}

func (uc *GetStatistics) Execute(
	ctx context.Context,
	start string,
	end string,
) (domain.Snapshot, error) {

	raw, err := uc.repo.Statistics(ctx, start, end)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return domain.Aggregate(raw), nil
}
