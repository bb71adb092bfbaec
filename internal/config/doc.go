// Package config loads loom.json / loom.yaml configuration files.
//
// A configuration file is optional: New returns the defaults and every CLI
// flag overrides the loaded value. Files ending in .yaml or .yml are read
// with YAML, everything else as JSON. Both use the same keys:
//
//	server:
//	  host: 0.0.0.0
//	  port: 8080
//	render:
//	  format: minified
//	  doctype: true
//	bridge:
//	  encoding: binary
//	  write_timeout: 10s
//	metrics:
//	  enabled: true
//	log:
//	  level: debug
//	  format: json
//	export:
//	  bucket: my-site
//	  prefix: pages/
//
// Durations are strings accepted by time.ParseDuration.
package config
