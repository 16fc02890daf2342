// Package cli implements the mockapi command line.
//
// Commands:
//   - serve (default): run the mock server with the admin API and console
//   - import: load projects, endpoints and settings from a YAML fixture
//   - export: write the stored projects, endpoints and settings as YAML
//   - assets: upload or list the static console files
//   - version: print build information
//
// Every command resolves its configuration through internal/cliconfig, so the
// same flags, MOCKAPI_* variables and config file select the backend for
// import and export that serve would use.
//
// Usage:
//
//	mockapi --port 8080 --kv-path ./data/mockapi.db
//	mockapi import fixtures.yaml
//	mockapi export -o backup.yaml
//	mockapi assets upload ./console/dist
package cli
