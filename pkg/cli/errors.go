package cli

import "errors"

// Common CLI errors
var (
	ErrNoFixtureData  = errors.New("fixture contains no projects, endpoints or settings")
	ErrNotADirectory  = errors.New("not a directory")
	ErrNoAssetsFound  = errors.New("no console assets found")
	ErrImportFailures = errors.New("some fixture entries could not be imported")
)
