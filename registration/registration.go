// Package registration is the explicit, hand-written (or generated)
// registration list that replaces the dynamic source-scanning the original
// design relied on to populate the registry (spec.md §9 Design Note
// "Scan-based registration has no equivalent in a statically compiled
// target"). Applications call Register for every (client, resource) pair
// at startup, typically from an init() or a main-package registration
// file, rather than the runtime walking submodules to discover them.
package registration

import (
	"github.com/zoobzio/forge/httpmsg"
	"github.com/zoobzio/forge/registry"
	"github.com/zoobzio/forge/schema"
)

// Options carries every optional field of one registration call, mirroring
// registry.RegisterOptions so callers don't need to import registry
// directly for the common case.
type Options struct {
	Version            string
	CollectionPath     string
	CollectionContract map[httpmsg.Method]registry.Contract
	Parser             schema.CollectionParser
}

// Register records one (client, resource) entry in reg (spec.md §4.2,
// §6 "register(client_name, resource, service, version?, path, contract,
// collection_path?, collection_contract?, parser?)").
func Register(reg *registry.Registry, clientName, resource, service, path string, contract map[httpmsg.Method]registry.Contract, opts Options) error {
	return reg.Register(clientName, resource, service, path, contract, registry.RegisterOptions{
		Version:            opts.Version,
		CollectionPath:     opts.CollectionPath,
		CollectionContract: opts.CollectionContract,
		Parser:             opts.Parser,
	})
}
