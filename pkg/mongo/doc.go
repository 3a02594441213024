// Package mongo opens MongoDB connections for the document catalog backend.
//
// Configuration comes from MONGODB_* variables; MONGODB_URL is required and
// MONGODB_DATABASE defaults to "polyfill". Pool sizes, idle time and the
// driver's retryable reads and writes are all driven by Config.
//
// # Usage
//
// Connect and select the catalog database:
//
//	var cfg mongo.Config
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//
//	client, err := mongo.New(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Disconnect(context.Background())
//
//	provider := catalog.NewMongoProvider(client.Database(cfg.Database))
//
// NewWithDatabase does both steps when the caller has no other use for the
// client:
//
//	db, err := mongo.NewWithDatabase(ctx, cfg)
//
// # Retries
//
// New pings the primary up to RetryAttempts times, RetryInterval apart,
// with ConnectTimeout as the driver's dial timeout.
//
// # Health
//
//	check := httpserver.Check{Name: "mongo", Probe: mongo.Healthcheck(client)}
//
// # Errors
//
// Connection failures are joined with ErrConnect and failed probes with
// ErrHealthcheckFailed.
package mongo
