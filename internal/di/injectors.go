//go:build wireinject
// +build wireinject

package di

import (
	"context"

	wire "github.com/google/wire"

	"github.com/santiago-ondris/wheels-house-sub002/internal/config"
	"github.com/santiago-ondris/wheels-house-sub002/internal/httpserver"
)

func InitServer(ctx context.Context, cfg *config.Config) (*httpserver.Server, func(), error) {
	wire.Build(ProviderSet)
	return nil, nil, nil
}
