// Package cliconfig loads the configuration of the mockapi binary.
//
// Values are layered with the following precedence (highest to lowest):
//
//  1. Command-line flags
//  2. Environment variables (MOCKAPI_* prefix)
//  3. YAML config file (--config, MOCKAPI_CONFIG or ./mockapi.yaml)
//  4. Default values
//
// Every value records the layer it came from in Config.Sources so that
// startup logs can explain where a setting originated.
package cliconfig
