package main

import (
	"context"

	"github.com/agreemshield/agreemshield/internal/infrastructure/database/postgres"
	"github.com/agreemshield/agreemshield/internal/infrastructure/database/redis"
	"github.com/agreemshield/agreemshield/internal/infrastructure/storage/minio"
)

// Readiness adapters for the health handler.

type postgresHealthAdapter struct {
	conn *postgres.Connection
}

func (a *postgresHealthAdapter) Name() string { return "postgres" }

func (a *postgresHealthAdapter) Check(ctx context.Context) error {
	return a.conn.HealthCheck(ctx)
}

type redisHealthAdapter struct {
	client *redis.Client
}

func (a *redisHealthAdapter) Name() string { return "redis" }

func (a *redisHealthAdapter) Check(ctx context.Context) error {
	return a.client.Ping(ctx)
}

type minioHealthAdapter struct {
	client *minio.MinIOClient
}

func (a *minioHealthAdapter) Name() string { return "minio" }

func (a *minioHealthAdapter) Check(ctx context.Context) error {
	return a.client.HealthCheck(ctx)
}
