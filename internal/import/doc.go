// Package imports translates legacy SUSE ifcfg network configuration
// (/etc/sysconfig/network) into normalized interface configurations.
//
// A directory translation loads the global config, dhcp and routes files,
// then translates every ifcfg-<name> file. It either succeeds for every
// interface or fails as a whole.
package imports
