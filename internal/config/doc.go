// Package config provides configuration management for the translation relay.
//
// Configuration is loaded from environment variables using the env package.
// All configuration values have defaults that run the relay against the
// public MyMemory endpoint on port 5000.
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("HTTP server will listen on %s\n", cfg.GetHTTPAddr())
package config
