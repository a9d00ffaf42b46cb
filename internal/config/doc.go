// Package config loads the JSON rule configuration (explicit path, then
// repo-local files, then the embedded defaults) and the optional global YAML
// preferences. It is internal; CLI code maps flags and files into engine
// configuration.
package config
