// Package config loads the ifcompat configuration file.
//
// The file is HCL, with JSON accepted as an alternative:
//
//	schema_version = "1.0"
//	sysconfig_dir  = "/etc/sysconfig/network"
//	format         = "hcl"
//
//	log {
//	  level = "debug"
//	}
//
//	metrics {
//	  enabled  = true
//	  listen   = "127.0.0.1:9469"
//	  interval = "30s"
//	}
//
// Unset values fall back to the brand defaults, which honour the
// IFCOMPAT_* environment overrides.
package config
