// Package config defines the setup settings and provides helpers to load,
// validate and save them in YAML format.
//
// The Config type holds the four remote asset URLs, the staging directory
// and the install target directory. All fields carry built-in defaults so
// the setup runs without any settings file.
package config
