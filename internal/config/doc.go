// Package config manages the YAML registry of known appliances and the user's
// preferences.
//
// Appliances are stored under a nickname with their host, optional digest
// username and the last values they reported. Every command that takes a
// host also accepts a nickname:
//
//	version: 1
//	appliances:
//	    laundry:
//	        host: 192.168.1.100
//	        username: admin
//	        type: washing_machine
//	preferences:
//	    locale: de-CH
//	    timeout_seconds: 10
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/vzug/config.yaml or $HOME/.config/vzug/config.yaml
//   - macOS: $HOME/.config/vzug/config.yaml
//   - Windows: %LOCALAPPDATA%\vzug\config.yaml
//
// VZUG_CONFIG overrides the location.
//
// # Security
//
// Passwords are never written to the file. ResolvePassword takes them from a
// flag, the VZUG_PASSWORD environment variable or an interactive prompt.
package config
