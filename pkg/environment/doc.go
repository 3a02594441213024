// Package environment names the deployment stage (development, staging or
// production) of a process.
//
// The stage drives logging defaults (see logger.WithEnvironment) and the
// wording of the bundle header: development builds announce themselves so
// they are not mistaken for production output, production builds carry the
// service version instead.
//
// # Usage
//
// The stage is read from APP_ENV through Config:
//
//	var cfg environment.Config
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//	env := cfg.Environment()
//
//	engine := polyfill.New(provider, polyfill.WithEnvironment(env))
//
// Parse accepts the full names and the short forms dev, prod and stage in
// any case:
//
//	environment.Parse("PROD")    // Production
//	environment.Parse("stage")   // Staging
//	environment.Parse("preview") // Development
//
// # Effects of the stage
//
//   - Development: text logs at debug level, bundle headers carry the
//     "DEVELOPMENT MODE" notice.
//   - Staging: JSON logs at info level, development headers.
//   - Production: JSON logs at info level, headers carry "Polyfill service
//     v<version>".
//
// Loggers and engines take the Environment as an option rather than reading
// APP_ENV themselves, so tests can pin a stage without touching the process
// environment:
//
//	log := logger.New(logger.WithEnvironment(environment.Production, "polyfill"))
//
// # Predicates
//
// IsProduction and IsStaging match one stage each. IsDevelopment is the
// fallback and reports true for anything else, so an unknown or empty
// APP_ENV never produces production behaviour by accident.
package environment
