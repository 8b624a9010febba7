// Package pg bootstraps the PostgreSQL layer on top of pgx/v5.
//
// Connect opens a *pgxpool.Pool from Config (populated from PG_* environment
// variables), retrying while the database comes up. Migrate applies goose
// migrations from an fs.FS, usually an embed.FS shipped next to the queries
// that need them:
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, registration.Migrations, cfg, log); err != nil {
//		return err
//	}
//
// Healthcheck adapts the pool to a readiness check.
package pg
