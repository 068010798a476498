package planner

import (
	"context"

	"github.com/2beens/overload/internal/performance"
	"github.com/2beens/overload/internal/progression"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=planner_test

type PerformanceSource interface {
	ListPerformance(ctx context.Context, params performance.Params) (*performance.Batch, error)
	ListClients(ctx context.Context, params performance.Params) ([]string, error)
}

type ProgramSource interface {
	ClientProgram(ctx context.Context, clientID string) (*progression.Program, error)
}

type GoalsRepo interface {
	Put(ctx context.Context, goals *progression.WeekGoals) error
}
