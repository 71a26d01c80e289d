// Package network holds the in-memory network object model: interfaces,
// addresses, routes and leases, plus the helpers that fill it from the
// kernel and from DHCP or router advertisement messages.
//
// # Object model
//
//   - [Interface]: a reference-counted device with its addresses, routes
//     and leases
//   - [Address] and [Route]: family-tagged entries built on net/netip
//   - [Lease]: a group of addresses and routes obtained by one addrconf
//     mechanism, keyed by family and [AddrconfMode]
//   - [InterfaceTable]: a name-indexed set of interfaces
//
// # Ownership
//
// [Interface.AddressToLease] and [Interface.RouteToLease] decide which lease
// an address or route belongs to. IPv6 autoconf leases own by prefix; the
// rest own by exact local address. Expired lease entries never match.
//
// # Kernel snapshots
//
// [Snapshot] reads links, addresses and routes through a [Netlinker] and
// optionally annotates drivers through [DriverInfo]. On Linux,
// [NewNetlinkerAt] binds the snapshot to a named network namespace.
package network
