// Package config loads service configuration from YAML files, .env files,
// and environment variables, in that order of increasing precedence.
//
// Services declare a struct embedding ServiceConfig and call Load:
//
//	var cfg config.Config
//	if err := config.Load("insurance-ai", &cfg); err != nil {
//	    ...
//	}
package config
